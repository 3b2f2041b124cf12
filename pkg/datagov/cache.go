package datagov

import (
	"strings"
	"sync"
	"time"

	"farmhelp/entities"
	"farmhelp/pkg/clock"
)

// CacheKey is datagov:{commodity|all}:{state|all}.
func CacheKey(commodity, state string) string {
	part := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return "all"
		}
		return s
	}
	return "datagov:" + part(commodity) + ":" + part(state)
}

type cacheEntry struct {
	at   time.Time
	recs []entities.PriceObservation
}

// Cache holds parsed feed responses for a fixed TTL.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	clock clock.Clock
	items map[string]cacheEntry
}

func NewCache(ttl time.Duration, c clock.Clock) *Cache {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Cache{ttl: ttl, clock: c, items: map[string]cacheEntry{}}
}

// Get drops and misses an entry older than the TTL.
func (c *Cache) Get(key string) ([]entities.PriceObservation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(e.at) > c.ttl {
		delete(c.items, key)
		return nil, false
	}
	return e.recs, true
}

func (c *Cache) Put(key string, recs []entities.PriceObservation) {
	c.mu.Lock()
	c.items[key] = cacheEntry{at: c.clock.Now(), recs: recs}
	c.mu.Unlock()
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = map[string]cacheEntry{}
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

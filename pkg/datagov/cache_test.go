package datagov

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"farmhelp/entities"
	"farmhelp/pkg/clock"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "datagov:all:all", CacheKey("", " "))
	assert.Equal(t, "datagov:Wheat:Punjab", CacheKey("Wheat", "Punjab"))
	assert.Equal(t, "datagov:Onion:all", CacheKey(" Onion ", ""))
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	mc := clock.NewMockClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	c := NewCache(24*time.Hour, mc)
	recs := []entities.PriceObservation{{Commodity: "Wheat"}}

	c.Put("k", recs)
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, recs, got)

	mc.Advance(24 * time.Hour)
	_, ok = c.Get("k")
	assert.True(t, ok, "entry exactly at TTL is still fresh")

	mc.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(time.Hour, clock.NewMockClock(time.Time{}))
	c.Put("a", nil)
	c.Put("b", nil)
	c.Clear()
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(time.Hour, clock.NewMockClock(time.Time{}))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := CacheKey("Wheat", string(rune('A'+i%5)))
			c.Put(key, nil)
			c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}

package datagov

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"farmhelp/entities"
	"farmhelp/pkg/clock"
)

const (
	ResourceID     = "9ef84268-d588-465a-a308-a864a43d0070"
	RequestTimeout = 45 * time.Second
	DefaultLimit   = 100
)

var ErrNotConfigured = errors.New("data.gov.in API key not configured")

type Options struct {
	BaseURL    string
	APIKey     string
	RatePerSec float64
	Cache      *Cache
	Clock      clock.Clock
	HTTPClient *http.Client
}

// Client fetches current mandi prices from the data.gov.in resource API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	cache   *Cache
	clock   clock.Clock
}

func New(o Options) *Client {
	if o.Clock == nil {
		o.Clock = clock.NewRealClock()
	}
	if o.Cache == nil {
		o.Cache = NewCache(24*time.Hour, o.Clock)
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: RequestTimeout}
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if o.RatePerSec > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RatePerSec), 1)
	}
	return &Client{
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		apiKey:  o.APIKey,
		http:    o.HTTPClient,
		limiter: lim,
		cache:   o.Cache,
		clock:   o.Clock,
	}
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

func (c *Client) Cache() *Cache { return c.cache }

// Fetch returns parsed observations for commodity/state (empty = all),
// serving repeated calls from the cache.
func (c *Client) Fetch(ctx context.Context, commodity, state string, limit int) ([]entities.PriceObservation, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	key := CacheKey(commodity, state)
	if recs, ok := c.cache.Get(key); ok {
		log.Printf("[datagov] cache hit %s (%d records)", key, len(recs))
		return recs, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	if commodity = strings.TrimSpace(commodity); commodity != "" {
		q.Set("filters[commodity]", commodity)
	}
	if state = strings.TrimSpace(state); state != "" {
		q.Set("filters[state]", state)
	}
	endpoint := c.baseURL + "/" + ResourceID + "?" + q.Encode()

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")

	log.Printf("[datagov] fetch commodity=%q state=%q limit=%d", commodity, state, limit)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datagov request: %w", err)
	}
	defer resp.Body.Close()

	body, err := decodedBody(resp)
	if err != nil {
		return nil, fmt.Errorf("datagov body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(body, 200))
		return nil, fmt.Errorf("datagov HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload response
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("datagov decode: %w", err)
	}

	now := c.clock.Now()
	recs := make([]entities.PriceObservation, 0, len(payload.Records))
	for _, r := range payload.Records {
		if o, ok := r.ToObservation(now); ok {
			recs = append(recs, o)
		}
	}
	c.cache.Put(key, recs)
	log.Printf("[datagov] fetched %d records (%d dropped)", len(recs), len(payload.Records)-len(recs))
	return recs, nil
}

func decodedBody(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	}
	return resp.Body, nil
}

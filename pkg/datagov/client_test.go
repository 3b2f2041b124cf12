package datagov

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhelp/pkg/clock"
)

const feed = `{"total":2,"count":2,"records":[
 {"state":"Delhi","district":"North","market":"Azadpur","commodity":"Wheat","arrival_date":"14/06/2026","min_price":"2000","max_price":"2400","modal_price":"2200"},
 {"state":"Delhi","district":"North","market":"Narela","commodity":"Wheat","arrival_date":"14/06/2026","min_price":"x","max_price":"2400","modal_price":"2200"}
]}`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *clock.MockClock) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	mc := clock.NewMockClock(fixedNow)
	c := New(Options{
		BaseURL: srv.URL,
		APIKey:  "k",
		Cache:   NewCache(time.Hour, mc),
		Clock:   mc,
	})
	return c, mc
}

func TestClient_NotConfigured(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Fetch(context.Background(), "Wheat", "", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.Configured())
}

func TestClient_FetchBuildsQueryAndCaches(t *testing.T) {
	var calls int32
	c, mc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/"+ResourceID, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "k", q.Get("api-key"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "Wheat", q.Get("filters[commodity]"))
		assert.Equal(t, "Delhi", q.Get("filters[state]"))
		w.Write([]byte(feed))
	})
	ctx := context.Background()

	recs, err := c.Fetch(ctx, "Wheat", "Delhi", 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Azadpur", recs[0].MarketName)

	_, err = c.Fetch(ctx, "Wheat", "Delhi", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	mc.Advance(2 * time.Hour)
	_, err = c.Fetch(ctx, "Wheat", "Delhi", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DecodesBrotliAndGzip(t *testing.T) {
	for _, enc := range []string{"br", "gzip"} {
		t.Run(enc, func(t *testing.T) {
			var buf bytes.Buffer
			switch enc {
			case "br":
				bw := brotli.NewWriter(&buf)
				bw.Write([]byte(feed))
				bw.Close()
			case "gzip":
				gw := gzip.NewWriter(&buf)
				gw.Write([]byte(feed))
				gw.Close()
			}
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", enc)
				w.Write(buf.Bytes())
			})

			recs, err := c.Fetch(context.Background(), "Wheat", "", 0)
			require.NoError(t, err)
			assert.Len(t, recs, 1)
		})
	}
}

func TestClient_HTTPErrorNotCached(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Fetch(context.Background(), "Wheat", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 0, c.Cache().Len())
}

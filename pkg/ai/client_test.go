package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhelp/pkg/price/types"
)

func sampleAdvisory() *types.Advisory {
	p := 1200.0
	return &types.Advisory{
		Commodity:      "Tomato",
		HasData:        true,
		CurrentPrice:   &p,
		HistoricalAvg:  1150,
		Trend:          types.TrendStable,
		Recommendation: &types.Recommendation{Action: types.ActionSellNow, Text: "Sell immediately", Confidence: 75},
		BestTimeToSell: &types.SellingWindow{Window: "Immediate"},
	}
}

func TestMock_Summary(t *testing.T) {
	s := NewMock().SummarizeAdvisory(context.Background(), sampleAdvisory())
	assert.Contains(t, s, "Tomato: Sell immediately")
	assert.Contains(t, s, "Best window: Immediate")

	none := NewMock().SummarizeAdvisory(context.Background(), &types.Advisory{Commodity: "Wheat"})
	assert.Equal(t, "Not enough recent prices to advise on this commodity.", none)
}

func TestOpenAI_UsesModelContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m", body["model"])
		w.Write([]byte(`{"choices":[{"message":{"content":"  Sell the tomatoes this week.  "}}]}`))
	}))
	defer srv.Close()

	s := NewOpenAI(srv.URL+"/", "key", "m").SummarizeAdvisory(context.Background(), sampleAdvisory())
	assert.Equal(t, "Sell the tomatoes this week.", s)
}

func TestOpenAI_FallsBackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := sampleAdvisory()
	s := NewOpenAI(srv.URL, "key", "m").SummarizeAdvisory(context.Background(), a)
	assert.Equal(t, fallbackSummary(a), s)
}

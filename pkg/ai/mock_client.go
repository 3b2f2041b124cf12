// pkg/ai/mock_client.go

package ai

import (
	"context"
	"fmt"
	"strings"

	"farmhelp/pkg/price/types"
)

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) SummarizeAdvisory(_ context.Context, a *types.Advisory) string {
	return fallbackSummary(a)
}

func fallbackSummary(a *types.Advisory) string {
	if a == nil || !a.HasData || a.Recommendation == nil {
		return "Not enough recent prices to advise on this commodity."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s: %s**\n\n", a.Commodity, a.Recommendation.Text)
	if a.CurrentPrice != nil {
		fmt.Fprintf(&b, "- Current price Rs %.0f/qtl vs 30-day average Rs %.0f\n", *a.CurrentPrice, a.HistoricalAvg)
	}
	fmt.Fprintf(&b, "- Trend: %s (%+.1f%%)\n", a.Trend, a.TrendChangePct)
	if w := a.BestTimeToSell; w != nil {
		fmt.Fprintf(&b, "- Best window: %s\n", w.Window)
	}
	fmt.Fprintf(&b, "- Confidence %d%%", a.Recommendation.Confidence)
	return b.String()
}

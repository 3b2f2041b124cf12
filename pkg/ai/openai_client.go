// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"farmhelp/pkg/price/types"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{endpoint: endpoint, key: key, model: model, httpc: &http.Client{Timeout: 25 * time.Second}}
}

func (c *openAI) SummarizeAdvisory(ctx context.Context, a *types.Advisory) string {
	if a == nil || !a.HasData {
		return fallbackSummary(a)
	}
	type chatReq struct {
		Model       string              `json:"model"`
		Messages    []map[string]string `json:"messages"`
		Temperature float64             `json:"temperature"`
	}
	reqBody := chatReq{
		Model: c.model,
		Messages: []map[string]string{
			{"role": "system", "content": "You advise Indian farmers on when to sell their crop. Write a concise Markdown summary, at most 6 bullet lines, no new numbers."},
			{"role": "user", "content": renderAdvisoryPrompt(a)},
		},
		Temperature: 0.2,
	}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return fallbackSummary(a)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[ai] summary request: %v", err)
		return fallbackSummary(a)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[ai] summary HTTP %d", resp.StatusCode)
		return fallbackSummary(a)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Choices) == 0 {
		return fallbackSummary(a)
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return fallbackSummary(a)
	}
	return content
}

func renderAdvisoryPrompt(a *types.Advisory) string {
	factors := make([]string, 0, len(a.Factors))
	for _, f := range a.Factors {
		factors = append(factors, fmt.Sprintf("- %s (%s): %s", f.Factor, f.Impact, f.Detail))
	}
	window := ""
	if a.BestTimeToSell != nil {
		window = a.BestTimeToSell.Window + " - " + a.BestTimeToSell.Reason
	}
	return fmt.Sprintf(`
Summarise this sell advisory for a farmer holding %s.

RECOMMENDATION: %s (%s, confidence %d%%)
REASONING: %s
PRICE: current %v, 30-day avg %.2f, min %.2f, max %.2f
TREND: %s %.2f%%
STORAGE: %s at Rs %.0f/qtl/month
BEST WINDOW: %s

FACTORS:
%s
`, a.Commodity, a.Recommendation.Action, a.Recommendation.Text, a.Recommendation.Confidence, a.Recommendation.Reasoning,
		derefPrice(a.CurrentPrice), a.HistoricalAvg, a.HistoricalMin, a.HistoricalMax,
		a.Trend, a.TrendChangePct, a.StorageClass, a.StorageCostPerMonth, window, strings.Join(factors, "\n"))
}

func derefPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *p)
}

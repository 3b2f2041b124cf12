// pkg/ai/client.go

package ai

import (
	"context"

	"farmhelp/pkg/price/types"
)

// Client writes a short farmer-facing summary of an advisory. It never fails;
// on any upstream problem it returns the template summary.
type Client interface {
	SummarizeAdvisory(ctx context.Context, a *types.Advisory) string
}

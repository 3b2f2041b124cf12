package service

import (
	"context"

	"farmhelp/entities"
)

const (
	SourceExternal = "external"
	SourceLocal    = "local"
)

// Fetcher is the external price feed.
type Fetcher interface {
	Configured() bool
	Fetch(ctx context.Context, commodity, state string, limit int) ([]entities.PriceObservation, error)
}

type RefreshResult struct {
	Source    string `json:"source"` // external|local
	Refreshed int    `json:"refreshed"`
	Skipped   int    `json:"skipped"`
	Rejected  int    `json:"rejected,omitempty"`
	BatchID   string `json:"batch_id,omitempty"`
	Message   string `json:"message"`
}

// RefreshService tops up the local store from the external feed. Refresh
// never fails because the feed is down; it reports source "local" instead.
type RefreshService interface {
	Refresh(ctx context.Context, commodity, state string) (RefreshResult, error)
}

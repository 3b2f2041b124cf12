package repository

import (
	"context"
	"time"

	"farmhelp/entities"
	"farmhelp/pkg/price/types"
)

// PriceRepository reads and appends price observations. Commodity, state and
// district matching is case-insensitive; an empty state means every state.
type PriceRepository interface {
	Query(ctx context.Context, f types.PriceFilter) ([]entities.PriceObservation, int64, error)
	// Latest returns nil, nil when the market has no observation.
	Latest(ctx context.Context, commodity, market string) (*entities.PriceObservation, error)
	// All orders by arrival_date desc, id asc.
	All(ctx context.Context, commodity, state string) ([]entities.PriceObservation, error)
	// Window returns observations with from <= arrival_date <= to, ascending.
	Window(ctx context.Context, commodity, state string, from, to time.Time) ([]entities.PriceObservation, error)

	Exists(ctx context.Context, commodity, market string, arrival time.Time) (bool, error)
	Create(ctx context.Context, o *entities.PriceObservation) error
	Commodities(ctx context.Context) ([]types.CommoditySummary, error)
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
	DeleteSource(ctx context.Context, source string) (int64, error)
}

package service

import (
	"context"
	"errors"

	"farmhelp/entities"
	"farmhelp/pkg/price/types"
)

var ErrDuplicate = errors.New("price already recorded for this market and date")

// LiveSource is the external feed used for live listings.
type LiveSource interface {
	Configured() bool
	Fetch(ctx context.Context, commodity, state string, limit int) ([]entities.PriceObservation, error)
}

type PriceService interface {
	Commodities(ctx context.Context) ([]types.CommoditySummary, error)
	ListPrices(ctx context.Context, f types.PriceFilter, live bool) (*types.PriceList, error)
	LatestPrice(ctx context.Context, commodity, market string) (*entities.PriceObservation, error)
	CreatePrice(ctx context.Context, o *entities.PriceObservation) error

	Compare(ctx context.Context, commodity, state string, markets []string) (types.Comparison, error)
	FindBest(ctx context.Context, commodity, state string, origin *types.LatLon, maxDistanceKm float64) (types.BestMarkets, error)
	PriceTrends(ctx context.Context, commodity, state string, days int) (types.Trend, error)
	SellAdvisory(ctx context.Context, commodity string, currentPrice *float64, state string, explain bool) (types.Advisory, error)
}

package serviceImp

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"farmhelp/entities"
	"farmhelp/pkg/ai"
	"farmhelp/pkg/analytics"
	"farmhelp/pkg/clock"
	repo "farmhelp/pkg/price/repository"
	"farmhelp/pkg/price/service"
	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
	"farmhelp/pkg/validation"
)

const maxLiveFetch = 500

type priceSvc struct {
	r      repo.PriceRepository
	tables *reference.Tables
	clock  clock.Clock
	live   service.LiveSource
	llm    ai.Client
	v      *validation.Validator
}

// NewPriceService wires the store, reference tables and clock. live and llm
// may be nil.
func NewPriceService(r repo.PriceRepository, tables *reference.Tables, c clock.Clock, live service.LiveSource, llm ai.Client) service.PriceService {
	if tables == nil {
		tables = reference.Default()
	}
	if c == nil {
		c = clock.NewRealClock()
	}
	return &priceSvc{r: r, tables: tables, clock: c, live: live, llm: llm, v: validation.New()}
}

func (s *priceSvc) Commodities(ctx context.Context) ([]types.CommoditySummary, error) {
	out, err := s.r.Commodities(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AvgPricePerQuintal = decimal.NewFromFloat(out[i].AvgPricePerQuintal).Round(2).InexactFloat64()
	}
	if out == nil {
		out = []types.CommoditySummary{}
	}
	return out, nil
}

func (s *priceSvc) ListPrices(ctx context.Context, f types.PriceFilter, live bool) (*types.PriceList, error) {
	if live && s.live != nil && s.live.Configured() {
		res, err := s.livePrices(ctx, f)
		if err == nil {
			return res, nil
		}
		log.Printf("[prices] live listing failed, using local data: %v", err)
	}

	rows, total, err := s.r.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &types.PriceList{Source: types.SourceLocal, Total: total, Limit: f.Limit, Offset: f.Offset, Prices: make([]types.PriceView, 0, len(rows))}
	for _, o := range rows {
		out.Prices = append(out.Prices, view(o, true))
	}
	return out, nil
}

// livePrices applies the filters the feed cannot (district, price bounds)
// and paginates in memory.
func (s *priceSvc) livePrices(ctx context.Context, f types.PriceFilter) (*types.PriceList, error) {
	recs, err := s.live.Fetch(ctx, f.Commodity, f.State, min(f.Limit+f.Offset+200, maxLiveFetch))
	if err != nil {
		return nil, err
	}
	district := strings.ToLower(strings.TrimSpace(f.District))
	kept := make([]entities.PriceObservation, 0, len(recs))
	for _, o := range recs {
		if district != "" && strings.ToLower(o.District) != district {
			continue
		}
		if f.MinPrice != nil && o.PricePerQuintal < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && o.PricePerQuintal > *f.MaxPrice {
			continue
		}
		kept = append(kept, o)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].ArrivalDate.Equal(kept[j].ArrivalDate) {
			return kept[i].ArrivalDate.After(kept[j].ArrivalDate)
		}
		return kept[i].PricePerQuintal > kept[j].PricePerQuintal
	})

	out := &types.PriceList{Source: types.SourceDataGov, Total: int64(len(kept)), Limit: f.Limit, Offset: f.Offset, Prices: []types.PriceView{}}
	lo := min(f.Offset, len(kept))
	hi := len(kept)
	if f.Limit > 0 {
		hi = min(lo+f.Limit, len(kept))
	}
	for _, o := range kept[lo:hi] {
		out.Prices = append(out.Prices, view(o, false))
	}
	return out, nil
}

func view(o entities.PriceObservation, stored bool) types.PriceView {
	v := types.PriceView{
		Commodity:       o.Commodity,
		MarketName:      o.MarketName,
		State:           o.State,
		District:        o.District,
		PricePerQuintal: o.PricePerQuintal,
		MinPrice:        o.MinPrice,
		MaxPrice:        o.MaxPrice,
		ModalPrice:      o.ModalPrice,
		ArrivalDate:     o.ArrivalDate,
		Source:          o.Source,
	}
	if stored {
		id := o.ID
		v.ID = &id
	}
	return v
}

func (s *priceSvc) LatestPrice(ctx context.Context, commodity, market string) (*entities.PriceObservation, error) {
	return s.r.Latest(ctx, commodity, market)
}

func (s *priceSvc) CreatePrice(ctx context.Context, o *entities.PriceObservation) error {
	o.Commodity = strings.TrimSpace(o.Commodity)
	o.MarketName = strings.TrimSpace(o.MarketName)
	if o.Source == "" {
		o.Source = entities.SourceManual
	}
	if err := s.v.Observation(o); err != nil {
		return err
	}
	dup, err := s.r.Exists(ctx, o.Commodity, o.MarketName, o.ArrivalDate)
	if err != nil {
		return err
	}
	if dup {
		return service.ErrDuplicate
	}
	return s.r.Create(ctx, o)
}

func (s *priceSvc) Compare(ctx context.Context, commodity, state string, markets []string) (types.Comparison, error) {
	obs, err := s.r.All(ctx, commodity, state)
	if err != nil {
		return types.Comparison{}, err
	}
	return analytics.Compare(commodity, obs, markets), nil
}

func (s *priceSvc) FindBest(ctx context.Context, commodity, state string, origin *types.LatLon, maxDistanceKm float64) (types.BestMarkets, error) {
	obs, err := s.r.All(ctx, commodity, state)
	if err != nil {
		return types.BestMarkets{}, err
	}
	return analytics.FindBest(commodity, obs, s.tables, origin, maxDistanceKm), nil
}

// PriceTrends reads [now-days, now]; an empty window falls back to the full
// history for the commodity.
func (s *priceSvc) PriceTrends(ctx context.Context, commodity, state string, days int) (types.Trend, error) {
	from, to, err := analytics.WindowBounds(s.clock.Now(), days)
	if err != nil {
		return types.Trend{}, err
	}
	obs, err := s.r.Window(ctx, commodity, state, from, to)
	if err != nil {
		return types.Trend{}, fmt.Errorf("trend window: %w", err)
	}
	fullRange := false
	if len(obs) == 0 {
		if obs, err = s.r.All(ctx, commodity, state); err != nil {
			return types.Trend{}, fmt.Errorf("trend history: %w", err)
		}
		fullRange = true
	}
	return analytics.BuildTrend(commodity, state, days, obs, fullRange), nil
}

func (s *priceSvc) SellAdvisory(ctx context.Context, commodity string, currentPrice *float64, state string, explain bool) (types.Advisory, error) {
	trend, err := s.PriceTrends(ctx, commodity, state, analytics.AdvisoryWindowDays)
	if err != nil {
		return types.Advisory{}, err
	}
	adv := analytics.BuildAdvisory(commodity, currentPrice, trend, s.tables, s.clock.Now())
	if explain && s.llm != nil && adv.HasData {
		adv.Summary = s.llm.SummarizeAdvisory(ctx, &adv)
	}
	return adv, nil
}

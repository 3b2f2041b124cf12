package analytics

import (
	"sort"
	"strings"

	"farmhelp/entities"
	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
)

const TransportCostPerKmPerQuintal = 2.5

// CoordinateLookup resolves a market name to its location.
type CoordinateLookup interface {
	Coordinate(market string) (reference.Coordinate, bool)
}

// LatestPerMarket keeps the most recent observation of every market, matching
// names case-insensitively and ignoring surrounding spaces.
// Markets come out in order of first appearance in obs; on equal arrival
// dates the earlier row wins.
func LatestPerMarket(obs []entities.PriceObservation) []entities.PriceObservation {
	idx := map[string]int{}
	out := make([]entities.PriceObservation, 0)
	for _, o := range obs {
		k := strings.ToLower(strings.TrimSpace(o.MarketName))
		i, seen := idx[k]
		if !seen {
			idx[k] = len(out)
			out = append(out, o)
			continue
		}
		if o.ArrivalDate.After(out[i].ArrivalDate) {
			out[i] = o
		}
	}
	return out
}

func toMarketPrice(o entities.PriceObservation) types.MarketPrice {
	return types.MarketPrice{
		MarketName:  o.MarketName,
		State:       o.State,
		District:    o.District,
		LatestPrice: o.PricePerQuintal,
		MinPrice:    o.MinPrice,
		MaxPrice:    o.MaxPrice,
		ModalPrice:  o.ModalPrice,
		ArrivalDate: o.ArrivalDate,
	}
}

func filterMarkets(obs []entities.PriceObservation, markets []string) []entities.PriceObservation {
	want := map[string]bool{}
	for _, m := range markets {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			want[m] = true
		}
	}
	if len(want) == 0 {
		return obs
	}
	out := make([]entities.PriceObservation, 0, len(obs))
	for _, o := range obs {
		if want[strings.ToLower(strings.TrimSpace(o.MarketName))] {
			out = append(out, o)
		}
	}
	return out
}

// Compare ranks the latest price of every market, best for a seller first.
// markets optionally restricts the comparison to the named markets.
func Compare(commodity string, obs []entities.PriceObservation, markets []string) types.Comparison {
	latest := LatestPerMarket(filterMarkets(obs, markets))
	res := types.Comparison{Commodity: commodity, Markets: []types.MarketPrice{}}
	if len(latest) == 0 {
		return res
	}

	entries := make([]types.MarketPrice, 0, len(latest))
	for _, o := range latest {
		entries = append(entries, toMarketPrice(o))
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].LatestPrice > entries[j].LatestPrice })

	res.Markets = entries
	res.TotalMarkets = len(entries)
	res.Analytics = comparisonAnalytics(entries)
	return res
}

func comparisonAnalytics(entries []types.MarketPrice) *types.ComparisonAnalytics {
	prices := make([]float64, len(entries))
	sum := 0.0
	lo, hi := entries[0].LatestPrice, entries[0].LatestPrice
	for i, e := range entries {
		prices[i] = e.LatestPrice
		sum += e.LatestPrice
		if e.LatestPrice < lo {
			lo = e.LatestPrice
		}
		if e.LatestPrice > hi {
			hi = e.LatestPrice
		}
	}
	best, worst := entries[0], entries[len(entries)-1]
	spread := round2(best.LatestPrice - worst.LatestPrice)
	spreadPct := 0.0
	if worst.LatestPrice > 0 {
		spreadPct = round2(spread / worst.LatestPrice * 100)
	}
	return &types.ComparisonAnalytics{
		AveragePrice:       round2(sum / float64(len(prices))),
		PriceRange:         types.PriceRange{Min: lo, Max: hi},
		PriceSpread:        spread,
		PriceSpreadPercent: spreadPct,
		BestMarket:         best.MarketName,
		WorstMarket:        worst.MarketName,
		Statistics:         Statistics(prices),
	}
}

// FindBest ranks markets by net price (price minus transport to origin).
//
// With an origin, markets without a known coordinate or farther than
// maxDistanceKm are dropped. Without one, transport is free and the ranking
// is plain price order.
func FindBest(commodity string, obs []entities.PriceObservation, coords CoordinateLookup, origin *types.LatLon, maxDistanceKm float64) types.BestMarkets {
	res := types.BestMarkets{Commodity: commodity, Recommendations: []types.MarketRecommendation{}}
	if origin != nil {
		loc := *origin
		maxD := maxDistanceKm
		res.UserLocation = &loc
		res.MaxDistanceKm = &maxD
	}

	for _, o := range LatestPerMarket(obs) {
		rec := types.MarketRecommendation{MarketPrice: toMarketPrice(o)}
		if origin != nil {
			c, ok := coords.Coordinate(o.MarketName)
			if !ok {
				continue
			}
			d := DistanceKm(origin.Latitude, origin.Longitude, c.Latitude, c.Longitude)
			if d > maxDistanceKm {
				continue
			}
			shown := round1(d)
			rec.DistanceKm = &shown
			rec.TransportCost = round2(d * TransportCostPerKmPerQuintal)
		}
		rec.NetPrice = round2(o.PricePerQuintal - rec.TransportCost)
		res.Recommendations = append(res.Recommendations, rec)
	}

	sort.SliceStable(res.Recommendations, func(i, j int) bool {
		return res.Recommendations[i].NetPrice > res.Recommendations[j].NetPrice
	})
	for i := range res.Recommendations {
		res.Recommendations[i].Rank = i + 1
	}
	res.TotalMarkets = len(res.Recommendations)
	return res
}

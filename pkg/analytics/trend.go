package analytics

import (
	"errors"
	"sort"
	"time"

	"farmhelp/entities"
	"farmhelp/pkg/price/types"
)

const TrendStableThresholdPercent = 2.0

var ErrInvalidWindow = errors.New("window days must be positive")

// WindowBounds returns [now - days, now].
func WindowBounds(now time.Time, days int) (time.Time, time.Time, error) {
	if days <= 0 {
		return time.Time{}, time.Time{}, ErrInvalidWindow
	}
	return now.AddDate(0, 0, -days), now, nil
}

// BuildTrend analyses the observations of one commodity. Callers pass the
// windowed set, or the full history with usingFullRange set when the window
// was empty.
func BuildTrend(commodity, state string, days int, obs []entities.PriceObservation, usingFullRange bool) types.Trend {
	res := types.Trend{
		Commodity:      commodity,
		State:          state,
		PeriodDays:     days,
		UsingFullRange: usingFullRange,
		PriceHistory:   []types.DailyPrice{},
		Outliers:       []types.Outlier{},
	}
	if len(obs) == 0 {
		res.UsingFullRange = false
		res.Message = "No price data found for this commodity"
		return res
	}

	recs := append([]entities.PriceObservation(nil), obs...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ArrivalDate.Before(recs[j].ArrivalDate) })

	res.PriceHistory = DailyHistory(recs)
	res.DataPoints = len(recs)
	res.UniqueDates = len(res.PriceHistory)
	res.Trend, res.ChangePercent = ClassifyTrend(res.PriceHistory)

	values := make([]float64, len(recs))
	hi, lo := 0, 0
	for i, r := range recs {
		values[i] = r.PricePerQuintal
		if r.PricePerQuintal > recs[hi].PricePerQuintal {
			hi = i
		}
		if r.PricePerQuintal < recs[lo].PricePerQuintal {
			lo = i
		}
	}
	res.Statistics = Statistics(values)
	res.Outliers = DetectOutliers(values, recs)
	res.Highest = pricePoint(recs[hi])
	res.Lowest = pricePoint(recs[lo])
	return res
}

func pricePoint(o entities.PriceObservation) *types.PricePoint {
	return &types.PricePoint{MarketName: o.MarketName, State: o.State, Price: o.PricePerQuintal, Date: o.ArrivalDate}
}

// DailyHistory groups observations by UTC calendar date, ascending.
func DailyHistory(obs []entities.PriceObservation) []types.DailyPrice {
	daily := map[string][]float64{}
	for _, o := range obs {
		k := o.ArrivalDate.UTC().Format("2006-01-02")
		daily[k] = append(daily[k], o.PricePerQuintal)
	}
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]types.DailyPrice, 0, len(dates))
	for _, d := range dates {
		ps := daily[d]
		sum, lo, hi := 0.0, ps[0], ps[0]
		for _, p := range ps {
			sum += p
			if p < lo {
				lo = p
			}
			if p > hi {
				hi = p
			}
		}
		out = append(out, types.DailyPrice{
			Date:     d,
			AvgPrice: round2(sum / float64(len(ps))),
			MinPrice: round2(lo),
			MaxPrice: round2(hi),
			Records:  len(ps),
		})
	}
	return out
}

// ClassifyTrend compares the mean daily average of the two halves of the
// history. The split index is len/2, so an odd history puts the extra day in
// the second half.
func ClassifyTrend(history []types.DailyPrice) (string, float64) {
	if len(history) < 2 {
		return types.TrendInsufficient, 0
	}
	mid := len(history) / 2
	first := meanAvg(history[:mid])
	second := meanAvg(history[mid:])
	change := 0.0
	if first > 0 {
		change = round2((second - first) / first * 100)
	}
	return classifyChange(change), change
}

func meanAvg(h []types.DailyPrice) float64 {
	sum := 0.0
	for _, d := range h {
		sum += d.AvgPrice
	}
	return sum / float64(len(h))
}

func classifyChange(pct float64) string {
	switch {
	case pct > TrendStableThresholdPercent:
		return types.TrendUp
	case pct < -TrendStableThresholdPercent:
		return types.TrendDown
	}
	return types.TrendStable
}

package analytics

import (
	"math"
	"sort"

	"farmhelp/entities"
	"farmhelp/pkg/price/types"
)

const OutlierIQRFactor = 1.5

// Statistics summarises a sample. It returns nil for an empty sample.
// StdDev is the population standard deviation (divisor n).
func Statistics(values []float64) *types.Stats {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	std := math.Sqrt(variance)

	cv := 0.0
	if mean > 0 {
		cv = std / mean * 100
	}

	return &types.Stats{
		Count:                  n,
		Mean:                   round2(mean),
		Median:                 round2(median),
		Min:                    round2(sorted[0]),
		Max:                    round2(sorted[n-1]),
		StdDev:                 round2(std),
		CoefficientOfVariation: round2(cv),
	}
}

// DetectOutliers flags values outside the 1.5*IQR fences, in input order.
//
// Quartiles are positional: Q1 = sorted[n/4], Q3 = sorted[3n/4] with integer
// division, not the interpolated estimator. Fewer than 4 values yields an
// empty list. When records[i] exists it annotates values[i].
func DetectOutliers(values []float64, records []entities.PriceObservation) []types.Outlier {
	out := []types.Outlier{}
	n := len(values)
	if n < 4 {
		return out
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1
	lower := q1 - OutlierIQRFactor*iqr
	upper := q3 + OutlierIQRFactor*iqr

	for i, v := range values {
		if v >= lower && v <= upper {
			continue
		}
		o := types.Outlier{Value: round2(v), Classification: types.OutlierHigh}
		if v < lower {
			o.Classification = types.OutlierLow
		}
		if i < len(records) {
			rec := records[i]
			d := rec.ArrivalDate
			o.MarketName = rec.MarketName
			o.State = rec.State
			o.ArrivalDate = &d
		}
		out = append(out, o)
	}
	return out
}

package analytics

import (
	"fmt"
	"math"
	"time"

	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
)

const (
	AdvisoryWindowDays   = 30
	AdvisoryMinDataPoint = 3
	neutralScore         = 50
	storageLookahead     = 6
)

// CommodityProfile gives the storage class and seasonality of a commodity.
type CommodityProfile interface {
	StorageClass(commodity string) reference.StorageClass
	Seasonal(commodity string) (reference.Seasonal, bool)
}

type scorer struct {
	score   int
	factors []types.Factor
}

func (s *scorer) add(delta int, factor, impact, detail string) {
	s.score += delta
	s.factors = append(s.factors, types.Factor{Factor: factor, Impact: impact, Detail: detail})
}

// BuildAdvisory turns a 30-day trend into a sell/store/wait recommendation.
// currentPrice defaults to the latest daily average when nil.
func BuildAdvisory(commodity string, currentPrice *float64, trend types.Trend, profile CommodityProfile, now time.Time) types.Advisory {
	if trend.DataPoints < AdvisoryMinDataPoint || trend.Statistics == nil || len(trend.PriceHistory) == 0 {
		return types.Advisory{
			Commodity: commodity,
			HasData:   false,
			Message:   "Insufficient price data to generate recommendation",
		}
	}

	current := trend.PriceHistory[len(trend.PriceHistory)-1].AvgPrice
	if currentPrice != nil {
		current = *currentPrice
	}
	stats := trend.Statistics
	avg, hi, lo := stats.Mean, stats.Max, stats.Min

	class := profile.StorageClass(commodity)
	storageCost := class.CostPerMonth()
	seasonal, hasSeason := profile.Seasonal(commodity)
	month := int(now.Month())

	position := 50.0
	if hi-lo > 0 {
		position = (current - lo) / (hi - lo) * 100
	}

	s := &scorer{score: neutralScore}

	// scaled before dividing so whole-percent edges stay exact
	vsAvg := 0.0
	if avg > 0 {
		vsAvg = (current - avg) * 100 / avg
	}
	switch {
	case vsAvg > 15:
		s.add(20, "Price above average", types.ImpactPositive,
			fmt.Sprintf("Current price is %.1f%% above 30-day average", vsAvg))
	case vsAvg > 5:
		s.add(10, "Price slightly above average", types.ImpactNeutral,
			fmt.Sprintf("Current price is %.1f%% above 30-day average", vsAvg))
	case vsAvg < -15:
		s.add(-20, "Price below average", types.ImpactNegative,
			fmt.Sprintf("Current price is %.1f%% below 30-day average", math.Abs(vsAvg)))
	case vsAvg < -5:
		s.add(-10, "Price slightly below average", types.ImpactNeutral,
			fmt.Sprintf("Current price is %.1f%% below 30-day average", math.Abs(vsAvg)))
	}

	switch trend.Trend {
	case types.TrendUp:
		s.add(-15, "Rising price trend", types.ImpactNegative,
			fmt.Sprintf("Prices have risen %.1f%% recently - may continue rising", trend.ChangePercent))
	case types.TrendDown:
		s.add(15, "Falling price trend", types.ImpactPositive,
			fmt.Sprintf("Prices have fallen %.1f%% recently - sell before further drop", math.Abs(trend.ChangePercent)))
	}

	switch class {
	case reference.Perishable:
		s.add(25, "Highly perishable commodity", types.ImpactPositive,
			"Short shelf life - immediate sale recommended to avoid spoilage")
	case reference.SemiPerishable:
		s.add(10, "Semi-perishable commodity", types.ImpactNeutral,
			"Can be stored for 1-3 months with proper storage")
	}

	if hasSeason {
		if seasonal.IsPeak(month) {
			s.add(20, "Peak price season", types.ImpactPositive,
				"Current month is typically a high-price period for this commodity")
		} else if seasonal.IsLow(month) {
			s.add(-20, "Low price season", types.ImpactNegative,
				fmt.Sprintf("Prices typically rise %g%% in coming months", seasonal.ExpectedRisePct))
		}

		if m := monthsToPeak(month, seasonal); m > 0 && class != reference.Perishable {
			gain := seasonal.ExpectedRisePct / 100 * current
			net := gain - storageCost*float64(m)
			if net > 0 {
				s.add(-15, "Storage economics favorable", types.ImpactNegative,
					fmt.Sprintf("Potential net gain of Rs %.0f/qtl after %d months storage", net, m))
			} else {
				s.add(10, "Storage not economical", types.ImpactPositive,
					"Storage costs exceed potential price gains")
			}
		}
	}

	rec := recommend(s.score)
	var season *reference.Seasonal
	if hasSeason {
		season = &seasonal
	}
	window := BestSellingWindow(month, season, class, trend.PriceHistory)
	cp := round2(current)

	return types.Advisory{
		Commodity:               commodity,
		HasData:                 true,
		CurrentPrice:            &cp,
		HistoricalAvg:           round2(avg),
		HistoricalMax:           round2(hi),
		HistoricalMin:           round2(lo),
		PricePositionPercentile: round1(position),
		Trend:                   trend.Trend,
		TrendChangePct:          trend.ChangePercent,
		StorageClass:            string(class),
		StorageCostPerMonth:     storageCost,
		Score:                   s.score,
		Recommendation:          &rec,
		Factors:                 s.factors,
		BestTimeToSell:          &window,
	}
}

// monthsToPeak is the smallest offset 1..6 landing on a peak month, 0 if none.
func monthsToPeak(month int, s reference.Seasonal) int {
	for m := 1; m <= storageLookahead; m++ {
		if s.IsPeak((month+m-1)%12 + 1) {
			return m
		}
	}
	return 0
}

func recommend(score int) types.Recommendation {
	switch {
	case score >= 70:
		return types.Recommendation{Action: types.ActionSellNow, Text: "Sell immediately",
			Confidence: min(95, score), Reasoning: "Current conditions strongly favor immediate sale"}
	case score >= 55:
		return types.Recommendation{Action: types.ActionSellSoon, Text: "Sell within 1-2 weeks",
			Confidence: min(80, score), Reasoning: "Conditions moderately favor selling soon"}
	case score <= 30:
		return types.Recommendation{Action: types.ActionStore, Text: "Store for better prices",
			Confidence: min(90, 100-score), Reasoning: "Storing the crop may yield better returns"}
	case score <= 45:
		return types.Recommendation{Action: types.ActionWait, Text: "Wait and monitor prices",
			Confidence: min(75, 100-score), Reasoning: "Current prices are not optimal - consider waiting"}
	}
	return types.Recommendation{Action: types.ActionFlexible, Text: "Sell partially or wait",
		Confidence: 60, Reasoning: "Mixed signals - consider selling part of stock"}
}

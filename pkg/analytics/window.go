package analytics

import (
	"fmt"
	"time"

	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
)

func monthName(m int) string {
	return time.Month(((m-1)%12+12)%12 + 1).String()
}

// BestSellingWindow estimates when to sell, independent of the advisory score.
func BestSellingWindow(month int, seasonal *reference.Seasonal, class reference.StorageClass, history []types.DailyPrice) types.SellingWindow {
	now := monthName(month)

	if class == reference.Perishable {
		return types.SellingWindow{Window: "Immediate", StartMonth: now, EndMonth: now, Confidence: 85,
			Reason: "Perishable commodity - sell before quality degrades"}
	}

	if seasonal != nil && len(seasonal.PeakMonths) > 0 {
		peaks := seasonal.PeakMonths
		if seasonal.IsPeak(month) {
			return types.SellingWindow{Window: "Now through end of peak season", StartMonth: now,
				EndMonth: monthName(peaks[len(peaks)-1]), Confidence: 80,
				Reason: "Currently in peak price season - sell within this window"}
		}

		wait := 13
		for _, pm := range peaks {
			diff := pm - month
			if diff <= 0 {
				diff += 12
			}
			if diff < wait {
				wait = diff
			}
		}

		if class == reference.SemiPerishable && wait > 3 {
			return types.SellingWindow{Window: "Within 1-2 months", StartMonth: now, EndMonth: monthName(month + 2),
				Confidence: 70, Reason: "Semi-perishable - sell before storage losses exceed gains"}
		}

		rise := seasonal.ExpectedRisePct
		start, end := monthName(peaks[0]), monthName(peaks[len(peaks)-1])
		return types.SellingWindow{Window: start + " - " + end, StartMonth: start, EndMonth: end,
			MonthsToWait: wait, ExpectedPriceRisePct: &rise, Confidence: 75,
			Reason: fmt.Sprintf("Historical peak season - prices typically %g%% higher", rise)}
	}

	if len(history) >= 5 {
		recent := history[len(history)-5:]
		switch {
		case monotonic(recent, func(a, b float64) bool { return a <= b }):
			return types.SellingWindow{Window: "Wait 2-4 weeks", StartMonth: now, EndMonth: monthName(month + 1),
				MonthsToWait: 1, Confidence: 65, Reason: "Prices showing consistent upward trend"}
		case monotonic(recent, func(a, b float64) bool { return a >= b }):
			return types.SellingWindow{Window: "Immediate", StartMonth: now, EndMonth: now, Confidence: 70,
				Reason: "Prices showing consistent downward trend - sell before further drop"}
		}
	}

	return types.SellingWindow{Window: "Flexible", StartMonth: now, EndMonth: monthName(month + 2), Confidence: 50,
		Reason: "No strong seasonal pattern - monitor market conditions"}
}

func monotonic(h []types.DailyPrice, ok func(a, b float64) bool) bool {
	for i := 0; i+1 < len(h); i++ {
		if !ok(h[i].AvgPrice, h[i+1].AvgPrice) {
			return false
		}
	}
	return true
}

package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhelp/entities"
	"farmhelp/pkg/analytics"
	"farmhelp/pkg/price/types"
)

func history(avgs ...float64) []types.DailyPrice {
	out := make([]types.DailyPrice, len(avgs))
	for i, a := range avgs {
		out[i] = types.DailyPrice{
			Date:     today.AddDate(0, 0, i).Format("2006-01-02"),
			AvgPrice: a,
			MinPrice: a,
			MaxPrice: a,
			Records:  1,
		}
	}
	return out
}

func TestWindowBounds(t *testing.T) {
	from, to, err := analytics.WindowBounds(today, 30)
	require.NoError(t, err)
	assert.True(t, to.Equal(today))
	assert.True(t, from.Equal(today.AddDate(0, 0, -30)))

	_, _, err = analytics.WindowBounds(today, 0)
	assert.ErrorIs(t, err, analytics.ErrInvalidWindow)
}

func TestClassifyTrend_Boundary(t *testing.T) {
	trend, change := analytics.ClassifyTrend(history(100, 100, 102.01, 102.01))
	assert.Equal(t, types.TrendUp, trend)
	assert.Equal(t, 2.01, change)

	trend, change = analytics.ClassifyTrend(history(100, 100, 102, 102))
	assert.Equal(t, types.TrendStable, trend)
	assert.Equal(t, 2.0, change)

	trend, _ = analytics.ClassifyTrend(history(100, 100, 97.99, 97.99))
	assert.Equal(t, types.TrendDown, trend)
}

func TestClassifyTrend_Insufficient(t *testing.T) {
	trend, change := analytics.ClassifyTrend(history(100))
	assert.Equal(t, types.TrendInsufficient, trend)
	assert.Equal(t, 0.0, change)
}

func TestClassifyTrend_OddLengthPutsMiddleInSecondHalf(t *testing.T) {
	// first half [100], second half [100, 130]: +15%
	trend, change := analytics.ClassifyTrend(history(100, 100, 130))
	assert.Equal(t, types.TrendUp, trend)
	assert.Equal(t, 15.0, change)
}

func TestBuildTrend_TenDays(t *testing.T) {
	// newest first, the way the store returns rows
	var in []entities.PriceObservation
	for daysAgo := 0; daysAgo < 10; daysAgo++ {
		price := 2100.0
		if daysAgo >= 5 {
			price = 2000
		}
		in = append(in, obs("MarketX", "Delhi", price, daysAgo))
	}

	res := analytics.BuildTrend("Wheat", "", 30, in, false)

	assert.Equal(t, 10, res.DataPoints)
	assert.Equal(t, 10, res.UniqueDates)
	assert.Equal(t, types.TrendUp, res.Trend)
	assert.Equal(t, 5.0, res.ChangePercent)
	require.Len(t, res.PriceHistory, 10)
	assert.Equal(t, today.AddDate(0, 0, -9).Format("2006-01-02"), res.PriceHistory[0].Date)
	assert.Equal(t, 2100.0, res.PriceHistory[9].AvgPrice)

	require.NotNil(t, res.Highest)
	assert.Equal(t, 2100.0, res.Highest.Price)
	assert.True(t, res.Highest.Date.Equal(today.AddDate(0, 0, -4)))
	require.NotNil(t, res.Lowest)
	assert.Equal(t, 2000.0, res.Lowest.Price)
	assert.True(t, res.Lowest.Date.Equal(today.AddDate(0, 0, -9)))
	require.NotNil(t, res.Statistics)
	assert.Equal(t, 2050.0, res.Statistics.Mean)
	assert.Empty(t, res.Outliers)
}

func TestBuildTrend_GroupsByDay(t *testing.T) {
	in := []entities.PriceObservation{
		obs("MarketX", "Delhi", 2000, 1),
		obs("MarketY", "Punjab", 2200, 1),
		obs("MarketX", "Delhi", 2300, 0),
	}
	res := analytics.BuildTrend("Wheat", "", 7, in, true)

	require.Len(t, res.PriceHistory, 2)
	day := res.PriceHistory[0]
	assert.Equal(t, 2100.0, day.AvgPrice)
	assert.Equal(t, 2000.0, day.MinPrice)
	assert.Equal(t, 2200.0, day.MaxPrice)
	assert.Equal(t, 2, day.Records)
	assert.True(t, res.UsingFullRange)
	assert.Equal(t, 3, res.DataPoints)
	assert.Equal(t, 2, res.UniqueDates)
}

func TestBuildTrend_Empty(t *testing.T) {
	res := analytics.BuildTrend("Saffron", "Kashmir", 30, nil, true)

	assert.Equal(t, "No price data found for this commodity", res.Message)
	assert.Equal(t, 0, res.DataPoints)
	assert.False(t, res.UsingFullRange)
	assert.Nil(t, res.Statistics)
	assert.NotNil(t, res.PriceHistory)
	assert.NotNil(t, res.Outliers)
}

func TestBuildTrend_DoesNotReorderInput(t *testing.T) {
	in := []entities.PriceObservation{
		obs("MarketX", "Delhi", 2300, 0),
		obs("MarketX", "Delhi", 2000, 3),
	}
	analytics.BuildTrend("Wheat", "", 7, in, false)
	assert.Equal(t, 2300.0, in[0].PricePerQuintal)
}

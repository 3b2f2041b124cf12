package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhelp/entities"
	"farmhelp/pkg/analytics"
	"farmhelp/pkg/price/types"
)

func TestStatistics_Empty(t *testing.T) {
	assert.Nil(t, analytics.Statistics(nil))
}

func TestStatistics_Values(t *testing.T) {
	s := analytics.Statistics([]float64{4, 1, 3, 2})
	require.NotNil(t, s)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 1.12, s.StdDev)
	assert.Equal(t, 44.72, s.CoefficientOfVariation)
}

func TestStatistics_OddMedian(t *testing.T) {
	s := analytics.Statistics([]float64{9, 1, 5})
	require.NotNil(t, s)
	assert.Equal(t, 5.0, s.Median)
}

func TestStatistics_Bounds(t *testing.T) {
	samples := [][]float64{
		{2200},
		{2200, 2350, 2150},
		{0.5, 1000.25, 333.33, 12},
	}
	for _, vs := range samples {
		s := analytics.Statistics(vs)
		require.NotNil(t, s)
		assert.LessOrEqual(t, s.Min, s.Mean)
		assert.LessOrEqual(t, s.Mean, s.Max)
		assert.GreaterOrEqual(t, s.StdDev, 0.0)
	}
}

func TestStatistics_ConstantSample(t *testing.T) {
	s := analytics.Statistics([]float64{1800, 1800, 1800})
	require.NotNil(t, s)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 0.0, s.CoefficientOfVariation)
}

func TestDetectOutliers_HighValue(t *testing.T) {
	out := analytics.DetectOutliers([]float64{10, 10, 10, 10, 10, 100}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].Value)
	assert.Equal(t, types.OutlierHigh, out[0].Classification)
	assert.Empty(t, out[0].MarketName)
}

func TestDetectOutliers_TooFewValues(t *testing.T) {
	out := analytics.DetectOutliers([]float64{1, 1000, 1000000}, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDetectOutliers_InputOrderAndAnnotation(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{100, 102, 98, 101, 99, 500, 10}
	recs := make([]entities.PriceObservation, len(values))
	for i, v := range values {
		recs[i] = entities.PriceObservation{
			MarketName:      "Market" + string(rune('A'+i)),
			State:           "Punjab",
			PricePerQuintal: v,
			ArrivalDate:     day.AddDate(0, 0, i),
		}
	}

	out := analytics.DetectOutliers(values, recs)

	require.Len(t, out, 2)
	assert.Equal(t, 500.0, out[0].Value)
	assert.Equal(t, types.OutlierHigh, out[0].Classification)
	assert.Equal(t, "MarketF", out[0].MarketName)
	require.NotNil(t, out[0].ArrivalDate)
	assert.True(t, out[0].ArrivalDate.Equal(day.AddDate(0, 0, 5)))

	assert.Equal(t, 10.0, out[1].Value)
	assert.Equal(t, types.OutlierLow, out[1].Classification)
	assert.Equal(t, "Punjab", out[1].State)
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
)

func TestRecommend_Boundaries(t *testing.T) {
	cases := []struct {
		score      int
		action     string
		confidence int
	}{
		{100, types.ActionSellNow, 95},
		{96, types.ActionSellNow, 95},
		{70, types.ActionSellNow, 70},
		{69, types.ActionSellSoon, 69},
		{55, types.ActionSellSoon, 55},
		{54, types.ActionFlexible, 60},
		{46, types.ActionFlexible, 60},
		{45, types.ActionWait, 55},
		{31, types.ActionWait, 69},
		{30, types.ActionStore, 70},
		{5, types.ActionStore, 90},
		{0, types.ActionStore, 90},
	}
	for _, tc := range cases {
		r := recommend(tc.score)
		assert.Equal(t, tc.action, r.Action, "score %d", tc.score)
		assert.Equal(t, tc.confidence, r.Confidence, "score %d", tc.score)
	}
}

func TestMonthsToPeak(t *testing.T) {
	cases := []struct {
		month int
		peak  []int
		want  int
	}{
		{12, []int{1}, 1},
		{11, []int{2, 3}, 3},
		{8, []int{1}, 5},
		{7, []int{1}, 6},
		{6, []int{1}, 0},
		{5, []int{5}, 0},
		{3, []int{5, 6, 7, 8}, 2},
	}
	for _, tc := range cases {
		got := monthsToPeak(tc.month, reference.Seasonal{PeakMonths: tc.peak})
		assert.Equal(t, tc.want, got, "month %d peak %v", tc.month, tc.peak)
	}
}

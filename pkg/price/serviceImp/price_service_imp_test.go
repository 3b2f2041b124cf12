package serviceImp_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhelp/database"
	"farmhelp/entities"
	"farmhelp/pkg/ai"
	"farmhelp/pkg/analytics"
	"farmhelp/pkg/clock"
	"farmhelp/pkg/price/repository"
	"farmhelp/pkg/price/repositoryImp"
	"farmhelp/pkg/price/service"
	"farmhelp/pkg/price/serviceImp"
	"farmhelp/pkg/price/types"
	"farmhelp/pkg/reference"
)

var now = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo repository.PriceRepository
	svc  service.PriceService
}

func newFixture(t *testing.T, live service.LiveSource) fixture {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	r := repositoryImp.New(db)
	return fixture{repo: r, svc: serviceImp.NewPriceService(r, reference.Default(), clock.NewMockClock(now), live, ai.NewMock())}
}

func (f fixture) add(t *testing.T, commodity, market, state string, price float64, daysAgo int) {
	o := entities.PriceObservation{
		Commodity:       commodity,
		MarketName:      market,
		State:           state,
		PricePerQuintal: price,
		ArrivalDate:     time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
		Source:          entities.SourceSeed,
	}
	require.NoError(t, f.repo.Create(context.Background(), &o))
}

type fakeLive struct {
	recs []entities.PriceObservation
	err  error
}

func (f *fakeLive) Configured() bool { return true }
func (f *fakeLive) Fetch(context.Context, string, string, int) ([]entities.PriceObservation, error) {
	return f.recs, f.err
}

func TestCompare_LatestPerMarket(t *testing.T) {
	f := newFixture(t, nil)
	f.add(t, "Wheat", "MarketX", "Delhi", 2200, 1)
	f.add(t, "Wheat", "MarketY", "Punjab", 2350, 1)
	f.add(t, "Wheat", "MarketX", "Delhi", 2150, 5)

	res, err := f.svc.Compare(context.Background(), "wheat", "", nil)
	require.NoError(t, err)

	require.Equal(t, 2, res.TotalMarkets)
	assert.Equal(t, "MarketY", res.Markets[0].MarketName)
	assert.Equal(t, 2200.0, res.Markets[1].LatestPrice)
	assert.Equal(t, "MarketY", res.Analytics.BestMarket)
	assert.Equal(t, 150.0, res.Analytics.PriceSpread)
}

func TestFindBest_UsesReferenceCoordinates(t *testing.T) {
	f := newFixture(t, nil)
	f.add(t, "Wheat", "Azadpur Mandi", "Delhi", 2200, 1)
	f.add(t, "Wheat", "Karnal Mandi", "Haryana", 2350, 1)
	f.add(t, "Wheat", "Unlisted Mandi", "Haryana", 9000, 1)

	origin := &types.LatLon{Latitude: 28.7, Longitude: 77.1}
	res, err := f.svc.FindBest(context.Background(), "Wheat", "", origin, 500)
	require.NoError(t, err)

	require.Equal(t, 2, res.TotalMarkets)
	assert.Equal(t, "Azadpur Mandi", res.Recommendations[0].MarketName)
	assert.Equal(t, "Karnal Mandi", res.Recommendations[1].MarketName)
	assert.Greater(t, res.Recommendations[1].TransportCost, 150.0)

	plain, err := f.svc.FindBest(context.Background(), "Wheat", "", nil, 500)
	require.NoError(t, err)
	assert.Equal(t, "Unlisted Mandi", plain.Recommendations[0].MarketName)
}

func TestPriceTrends_WindowAndFallback(t *testing.T) {
	f := newFixture(t, nil)
	f.add(t, "Onion", "Lasalgaon Mandi", "Maharashtra", 1500, 60)
	f.add(t, "Onion", "Lasalgaon Mandi", "Maharashtra", 1600, 50)
	ctx := context.Background()

	tr, err := f.svc.PriceTrends(ctx, "Onion", "", 7)
	require.NoError(t, err)
	assert.True(t, tr.UsingFullRange)
	assert.Equal(t, 2, tr.DataPoints)
	assert.Equal(t, types.TrendUp, tr.Trend)

	f.add(t, "Onion", "Lasalgaon Mandi", "Maharashtra", 1700, 2)
	tr, err = f.svc.PriceTrends(ctx, "Onion", "", 7)
	require.NoError(t, err)
	assert.False(t, tr.UsingFullRange)
	assert.Equal(t, 1, tr.DataPoints)
	assert.Equal(t, types.TrendInsufficient, tr.Trend)

	tr, err = f.svc.PriceTrends(ctx, "Saffron", "", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.DataPoints)
	assert.Equal(t, "No price data found for this commodity", tr.Message)

	_, err = f.svc.PriceTrends(ctx, "Onion", "", 0)
	assert.ErrorIs(t, err, analytics.ErrInvalidWindow)
}

func TestSellAdvisory_RefusesWithTwoRecentPoints(t *testing.T) {
	f := newFixture(t, nil)
	f.add(t, "Wheat", "Khanna Mandi", "Punjab", 2200, 3)
	f.add(t, "Wheat", "Khanna Mandi", "Punjab", 2250, 1)
	f.add(t, "Wheat", "Khanna Mandi", "Punjab", 2000, 90)

	adv, err := f.svc.SellAdvisory(context.Background(), "Wheat", nil, "", true)
	require.NoError(t, err)
	assert.False(t, adv.HasData)
	assert.Nil(t, adv.Recommendation)
	assert.Empty(t, adv.Summary)
}

func TestSellAdvisory_PerishableWithSummary(t *testing.T) {
	f := newFixture(t, nil)
	for d := 1; d <= 4; d++ {
		f.add(t, "Tomato", "Azadpur Mandi", "Delhi", 1200, d)
	}
	price := 1200.0

	adv, err := f.svc.SellAdvisory(context.Background(), "Tomato", &price, "", true)
	require.NoError(t, err)

	require.True(t, adv.HasData)
	assert.Equal(t, 75, adv.Score)
	assert.Equal(t, types.ActionSellNow, adv.Recommendation.Action)
	assert.Equal(t, "Immediate", adv.BestTimeToSell.Window)
	assert.Equal(t, "March", adv.BestTimeToSell.StartMonth)
	assert.Contains(t, adv.Summary, "Tomato")

	quiet, err := f.svc.SellAdvisory(context.Background(), "Tomato", &price, "", false)
	require.NoError(t, err)
	assert.Empty(t, quiet.Summary)
}

func TestCreatePrice_ValidatesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := &entities.PriceObservation{Commodity: " Wheat ", MarketName: "Khanna Mandi", PricePerQuintal: 2200, ArrivalDate: now}

	require.NoError(t, f.svc.CreatePrice(ctx, o))
	assert.Equal(t, "Wheat", o.Commodity)
	assert.Equal(t, entities.SourceManual, o.Source)
	assert.NotZero(t, o.ID)

	again := &entities.PriceObservation{Commodity: "Wheat", MarketName: "Khanna Mandi", PricePerQuintal: 2300, ArrivalDate: now}
	assert.ErrorIs(t, f.svc.CreatePrice(ctx, again), service.ErrDuplicate)

	bad := &entities.PriceObservation{Commodity: "Wheat", MarketName: "Khanna Mandi", PricePerQuintal: -1, ArrivalDate: now}
	assert.Error(t, f.svc.CreatePrice(ctx, bad))
}

func TestListPrices_LocalAndLive(t *testing.T) {
	live := &fakeLive{recs: []entities.PriceObservation{
		{Commodity: "Wheat", MarketName: "A", District: "Karnal", PricePerQuintal: 2100, ArrivalDate: now.AddDate(0, 0, -2)},
		{Commodity: "Wheat", MarketName: "B", District: "Karnal", PricePerQuintal: 2300, ArrivalDate: now.AddDate(0, 0, -1)},
		{Commodity: "Wheat", MarketName: "C", District: "Panipat", PricePerQuintal: 2500, ArrivalDate: now.AddDate(0, 0, -1)},
	}}
	f := newFixture(t, live)
	f.add(t, "Wheat", "Khanna Mandi", "Punjab", 2200, 1)
	ctx := context.Background()

	local, err := f.svc.ListPrices(ctx, types.PriceFilter{Commodity: "Wheat", Limit: 50}, false)
	require.NoError(t, err)
	assert.Equal(t, types.SourceLocal, local.Source)
	require.Len(t, local.Prices, 1)
	require.NotNil(t, local.Prices[0].ID)

	got, err := f.svc.ListPrices(ctx, types.PriceFilter{Commodity: "Wheat", District: "karnal", Limit: 1}, true)
	require.NoError(t, err)
	assert.Equal(t, types.SourceDataGov, got.Source)
	assert.Equal(t, int64(2), got.Total)
	require.Len(t, got.Prices, 1)
	assert.Equal(t, "B", got.Prices[0].MarketName)
	assert.Nil(t, got.Prices[0].ID)

	live.err = errors.New("feed down")
	fallback, err := f.svc.ListPrices(ctx, types.PriceFilter{Commodity: "Wheat", Limit: 50}, true)
	require.NoError(t, err)
	assert.Equal(t, types.SourceLocal, fallback.Source)
}

func TestCommodities_RoundsAverage(t *testing.T) {
	f := newFixture(t, nil)
	f.add(t, "Wheat", "MarketX", "Delhi", 2000, 1)
	f.add(t, "Wheat", "MarketY", "Delhi", 2000.01, 1)
	f.add(t, "Wheat", "MarketZ", "Delhi", 2000.01, 2)

	out, err := f.svc.Commodities(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2000.01, out[0].AvgPricePerQuintal)
	assert.Equal(t, int64(3), out[0].MarketCount)
	assert.Equal(t, int64(1), out[0].StateCount)
}

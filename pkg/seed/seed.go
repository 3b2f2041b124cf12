package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"farmhelp/entities"
	"farmhelp/pkg/clock"
	"farmhelp/pkg/importer"
)

type market struct {
	name, state, district string
}

type crop struct {
	commodity string
	base      float64
	markets   []market
}

// demoCrops mirrors the markets in the built-in coordinate table so that
// location-aware ranking has something to rank.
var demoCrops = []crop{
	{"Wheat", 2200, []market{
		{"Khanna Mandi", "Punjab", "Ludhiana"},
		{"Karnal Mandi", "Haryana", "Karnal"},
		{"Azadpur Mandi", "Delhi", "North Delhi"},
		{"Aligarh Mandi", "Uttar Pradesh", "Aligarh"},
	}},
	{"Rice", 1850, []market{
		{"Kaithal Mandi", "Haryana", "Kaithal"},
		{"Amritsar Mandi", "Punjab", "Amritsar"},
		{"Gorakhpur Mandi", "Uttar Pradesh", "Gorakhpur"},
	}},
	{"Cotton", 7200, []market{
		{"Rajkot Mandi", "Gujarat", "Rajkot"},
		{"Yavatmal Mandi", "Maharashtra", "Yavatmal"},
		{"Bathinda Mandi", "Punjab", "Bathinda"},
	}},
	{"Sugarcane", 315, []market{
		{"Muzaffarnagar Mandi", "Uttar Pradesh", "Muzaffarnagar"},
		{"Kolhapur Mandi", "Maharashtra", "Kolhapur"},
	}},
	{"Onion", 2800, []market{
		{"Lasalgaon Mandi", "Maharashtra", "Nashik"},
		{"Pimpalgaon Mandi", "Maharashtra", "Nashik"},
		{"Pune Mandi", "Maharashtra", "Pune"},
		{"Azadpur Mandi", "Delhi", "North Delhi"},
	}},
	{"Tomato", 1200, []market{
		{"Nashik Mandi", "Maharashtra", "Nashik"},
		{"Kolhapur Mandi", "Maharashtra", "Kolhapur"},
		{"Azadpur Mandi", "Delhi", "North Delhi"},
	}},
	{"Potato", 800, []market{
		{"Agra Mandi", "Uttar Pradesh", "Agra"},
		{"Farrukhabad Mandi", "Uttar Pradesh", "Farrukhabad"},
		{"Jalandhar Mandi", "Punjab", "Jalandhar"},
	}},
}

// Demo builds days of daily observations ending at now's date. Output is a
// pure function of now and days.
func Demo(now time.Time, days int) []entities.PriceObservation {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var out []entities.PriceObservation
	for ci, c := range demoCrops {
		for mi, m := range c.markets {
			// each market sits a little above or below the base
			level := c.base * (1 + 0.03*float64(mi-len(c.markets)/2))
			for d := 0; d < days; d++ {
				wave := 0.04 * math.Sin(float64(d)*0.45+float64(ci+mi))
				price := round2(level * (1 + wave))
				lo, hi, modal := round2(price*0.95), round2(price*1.05), price
				out = append(out, entities.PriceObservation{
					Commodity:       c.commodity,
					MarketName:      m.name,
					State:           m.state,
					District:        m.district,
					PricePerQuintal: price,
					MinPrice:        &lo,
					MaxPrice:        &hi,
					ModalPrice:      &modal,
					ArrivalDate:     today.AddDate(0, 0, -d),
				})
			}
		}
	}
	return out
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// fileRecord is one entry of a JSON seed file. mandi_name is accepted as an
// alias of market_name.
type fileRecord struct {
	Commodity       string   `json:"commodity"`
	MarketName      string   `json:"market_name"`
	MandiName       string   `json:"mandi_name"`
	State           string   `json:"state"`
	District        string   `json:"district"`
	PricePerQuintal float64  `json:"price_per_quintal"`
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	ModalPrice      *float64 `json:"modal_price"`
	ArrivalDate     string   `json:"arrival_date"`
}

// ParseJSON reads a JSON array of seed records. An unparseable arrival_date
// becomes now.
func ParseJSON(r io.Reader, now time.Time) ([]entities.PriceObservation, error) {
	var recs []fileRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("seed json: %w", err)
	}
	out := make([]entities.PriceObservation, 0, len(recs))
	for _, rec := range recs {
		name := rec.MarketName
		if name == "" {
			name = rec.MandiName
		}
		out = append(out, entities.PriceObservation{
			Commodity:       strings.TrimSpace(rec.Commodity),
			MarketName:      strings.TrimSpace(name),
			State:           rec.State,
			District:        rec.District,
			PricePerQuintal: rec.PricePerQuintal,
			MinPrice:        rec.MinPrice,
			MaxPrice:        rec.MaxPrice,
			ModalPrice:      rec.ModalPrice,
			ArrivalDate:     seedDate(rec.ArrivalDate, now),
		})
	}
	return out, nil
}

func seedDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}

// Seeder writes seed data through the importer so duplicates are skipped and
// every run gets its own batch id.
type Seeder struct {
	im    *importer.Importer
	clock clock.Clock
}

func New(im *importer.Importer, c clock.Clock) *Seeder {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Seeder{im: im, clock: c}
}

func (s *Seeder) Demo(ctx context.Context, days int) (importer.Result, error) {
	if days <= 0 {
		return importer.Result{}, fmt.Errorf("days must be positive, got %d", days)
	}
	return s.im.Import(ctx, entities.SourceSeed, importer.FromObservations(Demo(s.clock.Now(), days)))
}

func (s *Seeder) File(ctx context.Context, path string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, err
	}
	defer f.Close()
	obs, err := ParseJSON(f, s.clock.Now())
	if err != nil {
		return importer.Result{}, err
	}
	return s.im.Import(ctx, entities.SourceSeed, importer.FromObservations(obs))
}

package types

import (
	"encoding/json"
	"time"
)

// PriceFilter narrows a paginated price listing. Empty strings and nil bounds mean "any".
type PriceFilter struct {
	Commodity string
	State     string
	District  string
	MinPrice  *float64
	MaxPrice  *float64
	Limit     int
	Offset    int
}

type Stats struct {
	Count                  int     `json:"count"`
	Mean                   float64 `json:"mean"`
	Median                 float64 `json:"median"`
	Min                    float64 `json:"min"`
	Max                    float64 `json:"max"`
	StdDev                 float64 `json:"std_dev"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

const (
	OutlierLow  = "low"
	OutlierHigh = "high"
)

type Outlier struct {
	Value          float64    `json:"value"`
	Classification string     `json:"classification"` // low|high
	MarketName     string     `json:"market_name,omitempty"`
	State          string     `json:"state,omitempty"`
	ArrivalDate    *time.Time `json:"arrival_date,omitempty"`
}

// ---------- comparison / ranking ----------

type MarketPrice struct {
	MarketName  string    `json:"market_name"`
	State       string    `json:"state"`
	District    string    `json:"district"`
	LatestPrice float64   `json:"latest_price"`
	MinPrice    *float64  `json:"min_price"`
	MaxPrice    *float64  `json:"max_price"`
	ModalPrice  *float64  `json:"modal_price"`
	ArrivalDate time.Time `json:"arrival_date"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type ComparisonAnalytics struct {
	AveragePrice       float64    `json:"average_price"`
	PriceRange         PriceRange `json:"price_range"`
	PriceSpread        float64    `json:"price_spread"`
	PriceSpreadPercent float64    `json:"price_spread_percent"`
	BestMarket         string     `json:"best_market"`
	WorstMarket        string     `json:"worst_market"`
	Statistics         *Stats     `json:"statistics"`
}

type Comparison struct {
	Commodity    string               `json:"commodity"`
	TotalMarkets int                  `json:"total_markets"`
	Markets      []MarketPrice        `json:"markets"`
	Analytics    *ComparisonAnalytics `json:"analytics"`
}

type LatLon struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MarketRecommendation struct {
	Rank int `json:"rank"`
	MarketPrice
	DistanceKm    *float64 `json:"distance_km"`
	TransportCost float64  `json:"transport_cost_per_quintal"`
	NetPrice      float64  `json:"net_price_per_quintal"`
}

type BestMarkets struct {
	Commodity       string                 `json:"commodity"`
	UserLocation    *LatLon                `json:"user_location"`
	MaxDistanceKm   *float64               `json:"max_distance_km"`
	TotalMarkets    int                    `json:"total_markets"`
	Recommendations []MarketRecommendation `json:"recommendations"`
}

// ---------- trends ----------

const (
	TrendUp           = "up"
	TrendDown         = "down"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

type DailyPrice struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	AvgPrice float64 `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Records  int     `json:"records"`
}

type PricePoint struct {
	MarketName string    `json:"market_name"`
	State      string    `json:"state"`
	Price      float64   `json:"price"`
	Date       time.Time `json:"date"`
}

type Trend struct {
	Commodity      string       `json:"commodity"`
	State          string       `json:"state,omitempty"`
	PeriodDays     int          `json:"period_days"`
	UsingFullRange bool         `json:"using_full_range"`
	DataPoints     int          `json:"data_points"`
	UniqueDates    int          `json:"unique_dates"`
	Trend          string       `json:"trend"`
	ChangePercent  float64      `json:"change_percent"`
	Statistics     *Stats       `json:"statistics,omitempty"`
	PriceHistory   []DailyPrice `json:"price_history"`
	Highest        *PricePoint  `json:"highest_price_market,omitempty"`
	Lowest         *PricePoint  `json:"lowest_price_market,omitempty"`
	Outliers       []Outlier    `json:"outliers"`
	Message        string       `json:"message,omitempty"`
}

// ---------- sell advisory ----------

const (
	ImpactPositive = "positive" // favours selling now
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

const (
	ActionSellNow  = "SELL_NOW"
	ActionSellSoon = "SELL_SOON"
	ActionStore    = "STORE"
	ActionWait     = "WAIT"
	ActionFlexible = "FLEXIBLE"
)

type Factor struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
	Detail string `json:"detail"`
}

type Recommendation struct {
	Action     string `json:"action"`
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

type SellingWindow struct {
	Window               string   `json:"window"`
	StartMonth           string   `json:"start_month"`
	EndMonth             string   `json:"end_month"`
	MonthsToWait         int      `json:"months_to_wait"`
	ExpectedPriceRisePct *float64 `json:"expected_price_rise_pct,omitempty"`
	Confidence           int      `json:"confidence"`
	Reason               string   `json:"reason"`
}

type Advisory struct {
	Commodity               string          `json:"commodity"`
	HasData                 bool            `json:"has_data"`
	Message                 string          `json:"message,omitempty"`
	CurrentPrice            *float64        `json:"current_price"`
	HistoricalAvg           float64         `json:"historical_avg"`
	HistoricalMax           float64         `json:"historical_max"`
	HistoricalMin           float64         `json:"historical_min"`
	PricePositionPercentile float64         `json:"price_position_percentile"`
	Trend                   string          `json:"trend"`
	TrendChangePct          float64         `json:"trend_change_pct"`
	StorageClass            string          `json:"storage_class"`
	StorageCostPerMonth     float64         `json:"storage_cost_per_month"`
	Score                   int             `json:"score"`
	Recommendation          *Recommendation `json:"recommendation"`
	Factors                 []Factor        `json:"factors"`
	BestTimeToSell          *SellingWindow  `json:"best_time_to_sell"`
	Summary                 string          `json:"summary,omitempty"`
}

// MarshalJSON writes the full advisory when HasData, otherwise only the
// refusal fields, so zero scores and flat trends survive encoding.
func (a Advisory) MarshalJSON() ([]byte, error) {
	if !a.HasData {
		return json.Marshal(struct {
			Commodity      string          `json:"commodity"`
			HasData        bool            `json:"has_data"`
			Message        string          `json:"message"`
			Recommendation *Recommendation `json:"recommendation"`
			BestTimeToSell *SellingWindow  `json:"best_time_to_sell"`
		}{a.Commodity, false, a.Message, nil, nil})
	}
	type advisory Advisory
	out := advisory(a)
	if out.Factors == nil {
		out.Factors = []Factor{}
	}
	return json.Marshal(out)
}

// ---------- listings ----------

type CommoditySummary struct {
	Commodity          string  `json:"commodity"`
	RecordCount        int64   `json:"record_count"`
	AvgPricePerQuintal float64 `json:"avg_price_per_quintal"`
	MinPricePerQuintal float64 `json:"min_price_per_quintal"`
	MaxPricePerQuintal float64 `json:"max_price_per_quintal"`
	MarketCount        int64   `json:"market_count"`
	StateCount         int64   `json:"state_count"`
}

const (
	SourceLocal   = "local"
	SourceDataGov = "data.gov.in"
)

// PriceList is one page of observations, from the store or the live feed.
type PriceList struct {
	Source string      `json:"source"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Prices []PriceView `json:"prices"`
}

// PriceView is the listing shape of an observation; ID is nil for feed rows.
type PriceView struct {
	ID              *uint     `json:"id"`
	Commodity       string    `json:"commodity"`
	MarketName      string    `json:"market_name"`
	State           string    `json:"state"`
	District        string    `json:"district"`
	PricePerQuintal float64   `json:"price_per_quintal"`
	MinPrice        *float64  `json:"min_price"`
	MaxPrice        *float64  `json:"max_price"`
	ModalPrice      *float64  `json:"modal_price"`
	ArrivalDate     time.Time `json:"arrival_date"`
	Source          string    `json:"source,omitempty"`
}

package reference

import "strings"

type StorageClass string

const (
	Perishable     StorageClass = "perishable"
	SemiPerishable StorageClass = "semi_perishable"
	DefaultStorage StorageClass = "default"
)

// storage cost, currency per quintal per month
var storageCost = map[StorageClass]float64{
	DefaultStorage: 50,
	Perishable:     150,
	SemiPerishable: 80,
}

func (c StorageClass) CostPerMonth() float64 {
	if v, ok := storageCost[c]; ok {
		return v
	}
	return storageCost[DefaultStorage]
}

func ParseStorageClass(s string) (StorageClass, bool) {
	switch StorageClass(strings.ToLower(strings.TrimSpace(s))) {
	case Perishable:
		return Perishable, true
	case SemiPerishable:
		return SemiPerishable, true
	case DefaultStorage:
		return DefaultStorage, true
	}
	return "", false
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Seasonal struct {
	PeakMonths      []int   `json:"peak_months"`
	LowMonths       []int   `json:"low_months"`
	ExpectedRisePct float64 `json:"expected_rise_pct"`
}

func (s Seasonal) IsPeak(month int) bool { return containsMonth(s.PeakMonths, month) }
func (s Seasonal) IsLow(month int) bool  { return containsMonth(s.LowMonths, month) }

func containsMonth(ms []int, m int) bool {
	for _, v := range ms {
		if v == m {
			return true
		}
	}
	return false
}

// Tables holds the static lookups used by ranking and the sell advisory.
// Keys are lower-cased; a Tables value is not modified after it is built.
type Tables struct {
	coords   map[string]Coordinate
	storage  map[string]StorageClass
	seasonal map[string]Seasonal
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func newTables() *Tables {
	return &Tables{
		coords:   map[string]Coordinate{},
		storage:  map[string]StorageClass{},
		seasonal: map[string]Seasonal{},
	}
}

// Coordinate returns the market location, ok=false when the market is unknown.
func (t *Tables) Coordinate(market string) (Coordinate, bool) {
	c, ok := t.coords[key(market)]
	return c, ok
}

// StorageClass falls back to DefaultStorage for unknown commodities.
func (t *Tables) StorageClass(commodity string) StorageClass {
	if c, ok := t.storage[key(commodity)]; ok {
		return c
	}
	return DefaultStorage
}

func (t *Tables) Seasonal(commodity string) (Seasonal, bool) {
	s, ok := t.seasonal[key(commodity)]
	return s, ok
}

func (t *Tables) Counts() (coords, storage, seasonal int) {
	return len(t.coords), len(t.storage), len(t.seasonal)
}

// Default returns the built-in tables.
func Default() *Tables {
	t := newTables()
	for name, c := range defaultCoordinates {
		t.coords[key(name)] = c
	}
	for name, c := range defaultStorage {
		t.storage[key(name)] = c
	}
	for name, s := range defaultSeasonal {
		t.seasonal[key(name)] = s
	}
	return t
}

var defaultCoordinates = map[string]Coordinate{
	"Azadpur Mandi":         {28.7041, 77.1788},
	"Khanna Mandi":          {30.6982, 76.2212},
	"Kotkapura Mandi":       {30.5906, 74.8103},
	"Karnal Mandi":          {29.6857, 76.9905},
	"Sonipat Mandi":         {28.9845, 77.0151},
	"Aligarh Mandi":         {27.8974, 78.0880},
	"Meerut Mandi":          {28.9845, 77.7064},
	"Kaithal Mandi":         {29.8015, 76.3997},
	"Amritsar Mandi":        {31.6340, 74.8723},
	"Ludhiana Mandi":        {30.9010, 75.8573},
	"Gorakhpur Mandi":       {26.7606, 83.3732},
	"Varanasi Mandi":        {25.3176, 82.9739},
	"Rajkot Mandi":          {22.3039, 70.8022},
	"Surat Mandi":           {21.1702, 72.8311},
	"Ahmedabad Mandi":       {23.0225, 72.5714},
	"Yavatmal Mandi":        {20.3888, 78.1353},
	"Akola Mandi":           {20.7002, 77.0082},
	"Muzaffarnagar Mandi":   {29.4727, 77.7085},
	"Bijnor Mandi":          {29.3723, 78.1332},
	"Kolhapur Mandi":        {16.7050, 74.2433},
	"Pune Mandi":            {18.5204, 73.8567},
	"Lasalgaon Mandi":       {20.0425, 74.2357},
	"Pimpalgaon Mandi":      {20.1684, 73.9984},
	"Ahmednagar Mandi":      {19.0948, 74.7480},
	"Nashik Mandi":          {20.0063, 73.7900},
	"Agra Mandi":            {27.1767, 78.0081},
	"Farrukhabad Mandi":     {27.3869, 79.5909},
	"Bathinda Mandi":        {30.2110, 74.9455},
	"Moga Mandi":            {30.8101, 75.1710},
	"Rohtak Mandi":          {28.8955, 76.6066},
	"Hisar Mandi":           {29.1492, 75.7217},
	"Kurukshetra Mandi":     {29.9695, 76.8783},
	"Jalandhar Mandi":       {31.3260, 75.5762},
	"Vadodara Mandi":        {22.3072, 73.1812},
	"Wardha Mandi":          {20.7446, 78.5984},
	"Saharanpur Mandi":      {29.9680, 77.5510},
	"Sangli Mandi":          {16.8524, 74.5815},
	"Jalgaon Mandi":         {21.0077, 75.5626},
	"Satara Mandi":          {17.6802, 74.0183},
	"Kanpur Mandi":          {26.4499, 80.3319},
	"Gurgaon Mandi":         {28.4595, 77.0266},
	"Fatehgarh Sahib Mandi": {30.6518, 76.3870},
	"Bharuch Mandi":         {21.6941, 72.9677},
	"Shamli Mandi":          {29.4527, 77.3099},
}

var defaultStorage = map[string]StorageClass{
	"Tomato":       Perishable,
	"Onion":        SemiPerishable,
	"Potato":       SemiPerishable,
	"Brinjal":      Perishable,
	"Cabbage":      Perishable,
	"Cauliflower":  Perishable,
	"Capsicum":     Perishable,
	"Cucumber":     Perishable,
	"Carrot":       Perishable,
	"Green Chilli": Perishable,
	"Lady Finger":  Perishable,
	"Bitter Gourd": Perishable,
	"Bottle Gourd": Perishable,
	"Pumpkin":      SemiPerishable,
	"Banana":       Perishable,
	"Mango":        Perishable,
	"Papaya":       Perishable,
	"Guava":        Perishable,
	"Grapes":       Perishable,
	"Pomegranate":  SemiPerishable,
	"Apple":        SemiPerishable,
	"Orange":       SemiPerishable,
	"Wheat":        DefaultStorage,
	"Rice":         DefaultStorage,
	"Paddy":        DefaultStorage,
	"Maize":        DefaultStorage,
	"Bajra":        DefaultStorage,
	"Jowar":        DefaultStorage,
	"Cotton":       DefaultStorage,
	"Groundnut":    DefaultStorage,
	"Soyabean":     DefaultStorage,
	"Mustard":      DefaultStorage,
	"Chana":        DefaultStorage,
	"Tur":          DefaultStorage,
	"Moong":        DefaultStorage,
	"Urad":         DefaultStorage,
	"Masoor":       DefaultStorage,
	"Cumin":        DefaultStorage,
	"Coriander":    DefaultStorage,
	"Turmeric":     DefaultStorage,
	"Red Chilli":   DefaultStorage,
	"Ginger":       SemiPerishable,
	"Garlic":       SemiPerishable,
	"Sugarcane":    Perishable,
}

// typical Indian harvest cycles
var defaultSeasonal = map[string]Seasonal{
	"Wheat":     {PeakMonths: []int{5, 6, 7, 8}, LowMonths: []int{3, 4}, ExpectedRisePct: 15},
	"Rice":      {PeakMonths: []int{7, 8, 9}, LowMonths: []int{11, 12, 1}, ExpectedRisePct: 12},
	"Paddy":     {PeakMonths: []int{7, 8, 9}, LowMonths: []int{10, 11, 12}, ExpectedRisePct: 12},
	"Cotton":    {PeakMonths: []int{6, 7, 8, 9}, LowMonths: []int{11, 12, 1, 2}, ExpectedRisePct: 20},
	"Groundnut": {PeakMonths: []int{6, 7, 8}, LowMonths: []int{10, 11, 12}, ExpectedRisePct: 18},
	"Onion":     {PeakMonths: []int{8, 9, 10}, LowMonths: []int{1, 2, 3, 4, 5}, ExpectedRisePct: 40},
	"Potato":    {PeakMonths: []int{8, 9, 10, 11}, LowMonths: []int{1, 2, 3}, ExpectedRisePct: 30},
	"Tomato":    {PeakMonths: []int{5, 6, 7}, LowMonths: []int{11, 12, 1, 2}, ExpectedRisePct: 50},
	"Soyabean":  {PeakMonths: []int{6, 7, 8}, LowMonths: []int{10, 11, 12}, ExpectedRisePct: 15},
	"Maize":     {PeakMonths: []int{4, 5, 6}, LowMonths: []int{9, 10, 11}, ExpectedRisePct: 12},
	"Chana":     {PeakMonths: []int{10, 11, 12}, LowMonths: []int{3, 4, 5}, ExpectedRisePct: 18},
}

package datagov

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"farmhelp/entities"
)

// Record is one row of the mandi price resource. Prices arrive either as
// JSON numbers or as strings, so they are kept raw until mapped.
type Record struct {
	State       string          `json:"state"`
	District    string          `json:"district"`
	Market      string          `json:"market"`
	Commodity   string          `json:"commodity"`
	Variety     string          `json:"variety"`
	ArrivalDate string          `json:"arrival_date"`
	MinPrice    json.RawMessage `json:"min_price"`
	MaxPrice    json.RawMessage `json:"max_price"`
	ModalPrice  json.RawMessage `json:"modal_price"`
}

type response struct {
	Total   int      `json:"total"`
	Count   int      `json:"count"`
	Records []Record `json:"records"`
}

// number reads a price field. Blank, null and "NA" are 0; anything else
// unparseable is rejected.
func number(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "null" || strings.EqualFold(s, "NA") {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// parseArrival tries the feed's layouts and falls back to now.
func parseArrival(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t
		}
	}
	return now.UTC()
}

// ToObservation maps a feed row onto a price observation. The stored price
// is the modal price, or the max price when modal is missing.
func (r Record) ToObservation(now time.Time) (entities.PriceObservation, bool) {
	commodity := strings.TrimSpace(r.Commodity)
	if commodity == "" {
		return entities.PriceObservation{}, false
	}
	market := strings.TrimSpace(r.Market)
	if market == "" {
		market = "Unknown Market"
	}
	lo, ok1 := number(r.MinPrice)
	hi, ok2 := number(r.MaxPrice)
	modal, ok3 := number(r.ModalPrice)
	if !ok1 || !ok2 || !ok3 {
		return entities.PriceObservation{}, false
	}
	price := modal
	if price <= 0 {
		price = hi
	}
	return entities.PriceObservation{
		Commodity:       commodity,
		MarketName:      market,
		State:           strings.TrimSpace(r.State),
		District:        strings.TrimSpace(r.District),
		PricePerQuintal: price,
		MinPrice:        &lo,
		MaxPrice:        &hi,
		ModalPrice:      &modal,
		ArrivalDate:     parseArrival(r.ArrivalDate, now),
		Source:          entities.SourceDataGov,
	}, true
}

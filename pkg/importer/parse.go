package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"farmhelp/entities"
	"farmhelp/pkg/reference"
)

var ErrUnsupportedFormat = errors.New("unsupported import format")

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

// Row is one parsed data line. Line is 1-based and counts the header.
type Row struct {
	Line        int
	Observation entities.PriceObservation
	Err         error
}

// Defaults fill columns a file does not carry. Agmarknet reports are per
// commodity and often per state, so both may come from the request.
type Defaults struct {
	Commodity string
	State     string
}

// FormatFromName maps a file name to an import format.
func FormatFromName(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".html", ".htm", ".xls":
		// Agmarknet's "Excel" export is an HTML table
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

func Parse(format string, r io.Reader, d Defaults) ([]Row, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r, d)
	case FormatXLSX:
		return ParseXLSX(r, d)
	case FormatHTML:
		return ParseHTML(r, d)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func ParseCSV(r io.Reader, d Defaults) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return fromRecords(recs, d)
}

// ParseXLSX reads the first sheet of the workbook.
func ParseXLSX(r io.Reader, d Defaults) ([]Row, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx: no sheets")
	}
	recs, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	return fromRecords(recs, d)
}

// ParseHTML reads the first table whose header names a market column.
func ParseHTML(r io.Reader, d Defaults) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}
	var recs [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th,td").Each(func(_ int, c *goquery.Selection) {
				cells = append(cells, strings.Join(strings.Fields(c.Text()), " "))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 && newColumns(rows[0]).market >= 0 {
			recs = rows
			return false
		}
		return true
	})
	if recs == nil {
		return nil, errors.New("html: no price table found")
	}
	return fromRecords(recs, d)
}

type columns struct {
	commodity, market, state, district, price, min, max, modal, date int
}

// normCol strips a unit suffix such as "(Rs./Quintal)" before normalising.
func normCol(s string) string {
	if i := strings.Index(s, "("); i > 0 {
		s = s[:i]
	}
	return reference.NormHeader(s)
}

func newColumns(head []string) columns {
	idx := map[string]int{}
	for i, h := range head {
		if _, dup := idx[normCol(h)]; !dup {
			idx[normCol(h)] = i
		}
	}
	find := func(keys ...string) int {
		for _, k := range keys {
			if i, ok := idx[normCol(k)]; ok {
				return i
			}
		}
		return -1
	}
	return columns{
		commodity: find("commodity", "crop"),
		market:    find("market_name", "market", "mandi_name", "mandi", "apmc"),
		state:     find("state", "state_name"),
		district:  find("district", "district_name"),
		price:     find("price_per_quintal", "price"),
		min:       find("min_price", "minimum_price"),
		max:       find("max_price", "maximum_price"),
		modal:     find("modal_price"),
		date:      find("arrival_date", "price_date", "date", "reported_date"),
	}
}

func fromRecords(recs [][]string, d Defaults) ([]Row, error) {
	if len(recs) == 0 {
		return nil, errors.New("empty file")
	}
	c := newColumns(recs[0])
	if c.market < 0 || (c.price < 0 && c.modal < 0) || c.date < 0 {
		return nil, fmt.Errorf("missing columns, need market, price or modal_price, arrival_date; found %v", recs[0])
	}
	if c.commodity < 0 && strings.TrimSpace(d.Commodity) == "" {
		return nil, errors.New("missing commodity column and no default commodity given")
	}

	out := make([]Row, 0, len(recs)-1)
	for i, rec := range recs[1:] {
		if blank(rec) {
			continue
		}
		o, err := c.observation(rec, d)
		out = append(out, Row{Line: i + 2, Observation: o, Err: err})
	}
	return out, nil
}

func (c columns) observation(rec []string, d Defaults) (entities.PriceObservation, error) {
	o := entities.PriceObservation{
		Commodity:  orDefault(cell(rec, c.commodity), d.Commodity),
		MarketName: cell(rec, c.market),
		State:      orDefault(cell(rec, c.state), d.State),
		District:   cell(rec, c.district),
	}
	var err error
	if o.MinPrice, err = optPrice(cell(rec, c.min)); err != nil {
		return o, fmt.Errorf("min_price: %w", err)
	}
	if o.MaxPrice, err = optPrice(cell(rec, c.max)); err != nil {
		return o, fmt.Errorf("max_price: %w", err)
	}
	if o.ModalPrice, err = optPrice(cell(rec, c.modal)); err != nil {
		return o, fmt.Errorf("modal_price: %w", err)
	}

	price, err := optPrice(cell(rec, c.price))
	if err != nil {
		return o, fmt.Errorf("price: %w", err)
	}
	switch {
	case price != nil:
		o.PricePerQuintal = *price
	case o.ModalPrice != nil && *o.ModalPrice > 0:
		o.PricePerQuintal = *o.ModalPrice
	case o.MaxPrice != nil:
		o.PricePerQuintal = *o.MaxPrice
	default:
		return o, errors.New("no price")
	}

	if o.ArrivalDate, err = parseDate(cell(rec, c.date)); err != nil {
		return o, err
	}
	return o, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"02-Jan-2006",
	"2006-01-02T15:04:05Z07:00",
}

func parseDate(s string) (time.Time, error) {
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("arrival_date %q: unrecognised date", s)
}

func optPrice(s string) (*float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.EqualFold(s, "NA") || s == "-" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func orDefault(v, def string) string {
	if v == "" {
		return strings.TrimSpace(def)
	}
	return v
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

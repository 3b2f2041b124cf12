package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFromFiles overlays the built-in tables with rows read from the given
// files. Empty paths are skipped. The CSV files carry a header row; the XLSX
// workbook may hold "coordinates", "storage" and "seasonal" sheets.
func LoadFromFiles(coordCSV, seasonalCSV, xlsxPath string) (*Tables, error) {
	t := Default()
	if coordCSV != "" {
		rows, err := readCSV(coordCSV)
		if err != nil {
			return nil, fmt.Errorf("coordinates csv: %w", err)
		}
		if err := t.applyCoordinates(rows); err != nil {
			return nil, fmt.Errorf("coordinates csv: %w", err)
		}
	}
	if seasonalCSV != "" {
		rows, err := readCSV(seasonalCSV)
		if err != nil {
			return nil, fmt.Errorf("seasonal csv: %w", err)
		}
		if err := t.applySeasonal(rows); err != nil {
			return nil, fmt.Errorf("seasonal csv: %w", err)
		}
	}
	if xlsxPath != "" {
		if err := t.loadXLSX(xlsxPath); err != nil {
			return nil, fmt.Errorf("reference xlsx: %w", err)
		}
	}
	return t, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

func (t *Tables) loadXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	for _, sheet := range x.GetSheetList() {
		rows, err := x.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		switch normHeader(sheet) {
		case "coordinates", "markets":
			err = t.applyCoordinates(rows)
		case "storage":
			err = t.applyStorage(rows)
		case "seasonal", "seasonality":
			err = t.applySeasonal(rows)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return nil
}

// NormHeader lower-cases a column name and strips BOM, spaces, dashes and underscores.
func NormHeader(s string) string { return normHeader(s) }

func normHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

type header map[string]int

func newHeader(head []string) header {
	h := header{}
	for i, c := range head {
		h[normHeader(c)] = i
	}
	return h
}

func (h header) find(keys ...string) int {
	for _, k := range keys {
		if idx, ok := h[normHeader(k)]; ok {
			return idx
		}
	}
	return -1
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func (t *Tables) applyCoordinates(rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	cName := h.find("market", "market_name", "mandi", "mandi_name", "apmc")
	cLat := h.find("latitude", "lat")
	cLon := h.find("longitude", "lon", "lng")
	if cName == -1 || cLat == -1 || cLon == -1 {
		return fmt.Errorf("missing columns, need market, latitude, longitude; found %v", rows[0])
	}
	for _, rec := range rows[1:] {
		name := cell(rec, cName)
		lat, err1 := strconv.ParseFloat(cell(rec, cLat), 64)
		lon, err2 := strconv.ParseFloat(cell(rec, cLon), 64)
		if name == "" || err1 != nil || err2 != nil {
			continue
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}
		t.coords[key(name)] = Coordinate{Latitude: lat, Longitude: lon}
	}
	return nil
}

func (t *Tables) applyStorage(rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	cName := h.find("commodity", "crop")
	cClass := h.find("storage_class", "storage", "class")
	if cName == -1 || cClass == -1 {
		return fmt.Errorf("missing columns, need commodity, storage_class; found %v", rows[0])
	}
	for _, rec := range rows[1:] {
		name := cell(rec, cName)
		cls, ok := ParseStorageClass(cell(rec, cClass))
		if name == "" || !ok {
			continue
		}
		t.storage[key(name)] = cls
	}
	return nil
}

func (t *Tables) applySeasonal(rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	h := newHeader(rows[0])
	cName := h.find("commodity", "crop")
	cPeak := h.find("peak_months", "peak")
	cLow := h.find("low_months", "low")
	cRise := h.find("expected_rise_pct", "expected_rise", "rise_pct", "rise")
	cClass := h.find("storage_class", "storage")
	if cName == -1 || cPeak == -1 {
		return fmt.Errorf("missing columns, need commodity, peak_months; found %v", rows[0])
	}
	for _, rec := range rows[1:] {
		name := cell(rec, cName)
		if name == "" {
			continue
		}
		if cls, ok := ParseStorageClass(cell(rec, cClass)); ok {
			t.storage[key(name)] = cls
		}
		peak, err := parseMonths(cell(rec, cPeak))
		if err != nil || len(peak) == 0 {
			continue
		}
		low, err := parseMonths(cell(rec, cLow))
		if err != nil {
			continue
		}
		rise := 10.0
		if v, err := strconv.ParseFloat(cell(rec, cRise), 64); err == nil {
			rise = v
		}
		t.seasonal[key(name)] = Seasonal{PeakMonths: peak, LowMonths: low, ExpectedRisePct: rise}
	}
	return nil
}

var errBadMonth = errors.New("month out of range")

// parseMonths reads "5;6;7", "5|6|7", "5 6 7" or "5,6,7".
func parseMonths(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '|' || r == ',' || r == ' '
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		m, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		if m < 1 || m > 12 {
			return nil, errBadMonth
		}
		out = append(out, m)
	}
	return out, nil
}

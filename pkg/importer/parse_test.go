package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromName(t *testing.T) {
	for name, want := range map[string]string{"a.CSV": FormatCSV, "b.xlsx": FormatXLSX, "c.htm": FormatHTML, "report.xls": FormatHTML} {
		got, err := FormatFromName(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromName("x.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseCSV(t *testing.T) {
	in := "\uFEFFCommodity,Market Name,State,District,Min Price,Max Price,Modal Price,Arrival Date\n" +
		"Wheat,Khanna Mandi,Punjab,Ludhiana,\"2,100\",2300,2250,14/06/2026\n" +
		",,,,,,,\n" +
		"Wheat,Karnal Mandi,Haryana,Karnal,2000,2200,,2026-06-13\n" +
		"Wheat,Bad Mandi,Haryana,Karnal,abc,2200,2100,2026-06-13\n" +
		"Wheat,Late Mandi,Haryana,Karnal,2000,2200,2100,yesterday\n"

	rows, err := ParseCSV(strings.NewReader(in), Defaults{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[0]
	require.NoError(t, first.Err)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "Khanna Mandi", first.Observation.MarketName)
	assert.Equal(t, 2250.0, first.Observation.PricePerQuintal)
	assert.Equal(t, 2100.0, *first.Observation.MinPrice)
	assert.Equal(t, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), first.Observation.ArrivalDate)

	// no modal: falls back to max
	require.NoError(t, rows[1].Err)
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, 2200.0, rows[1].Observation.PricePerQuintal)
	assert.Nil(t, rows[1].Observation.ModalPrice)

	assert.Error(t, rows[2].Err)
	assert.Error(t, rows[3].Err)
	assert.Contains(t, rows[3].Err.Error(), "unrecognised date")
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("market,price\nX,100\n"), Defaults{Commodity: "Wheat"})
	assert.Error(t, err)

	_, err = ParseCSV(strings.NewReader("market,price,date\nX,100,2026-01-01\n"), Defaults{})
	assert.Error(t, err)

	rows, err := ParseCSV(strings.NewReader("market,price,date\nX,100,2026-01-01\n"), Defaults{Commodity: "Wheat", State: "Delhi"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wheat", rows[0].Observation.Commodity)
	assert.Equal(t, "Delhi", rows[0].Observation.State)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"commodity", "market_name", "state", "price_per_quintal", "arrival_date"},
		{"Onion", "Lasalgaon Mandi", "Maharashtra", 1500, "2026-06-10"},
		{"Onion", "Pimpalgaon Mandi", "Maharashtra", 1450, "2026-06-10"},
	}
	for i, row := range data {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseXLSX(&buf, Defaults{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NoError(t, rows[1].Err)
	assert.Equal(t, "Pimpalgaon Mandi", rows[1].Observation.MarketName)
	assert.Equal(t, 1450.0, rows[1].Observation.PricePerQuintal)
}

func TestParseHTML_AgmarknetReport(t *testing.T) {
	page := `<html><body>
<table><tr><td>Navigation</td></tr></table>
<table class="tableagmark_new">
 <tr><th>Sl no.</th><th>District Name</th><th>Market Name</th><th>Commodity</th><th>Variety</th>
     <th>Min Price (Rs./Quintal)</th><th>Max Price (Rs./Quintal)</th><th>Modal Price (Rs./Quintal)</th><th>Price Date</th></tr>
 <tr><td>1</td><td>Nashik</td><td>Lasalgaon</td><td>Onion</td><td>Red</td><td>1,200</td><td>1,650</td><td>1,500</td><td>14 Jun 2026</td></tr>
 <tr><td>2</td><td>Nashik</td><td>Pimpalgaon</td><td>Onion</td><td>Red</td><td>1100</td><td>1600</td><td>1450</td><td>14 Jun 2026</td></tr>
</table></body></html>`

	rows, err := ParseHTML(strings.NewReader(page), Defaults{State: "Maharashtra"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	o := rows[0].Observation
	require.NoError(t, rows[0].Err)
	assert.Equal(t, "Lasalgaon", o.MarketName)
	assert.Equal(t, "Nashik", o.District)
	assert.Equal(t, "Maharashtra", o.State)
	assert.Equal(t, 1500.0, o.PricePerQuintal)
	assert.Equal(t, 1200.0, *o.MinPrice)
	assert.Equal(t, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), o.ArrivalDate)
}

func TestParseHTML_NoTable(t *testing.T) {
	_, err := ParseHTML(strings.NewReader("<p>maintenance</p>"), Defaults{})
	assert.Error(t, err)
}

package emit

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/validate"
)

func TestScrubProperties(t *testing.T) {
	in := map[string]any{
		"name":   "ABC",
		"nan":    math.NaN(),
		"inf":    math.Inf(1),
		"num":    41.59,
		"nested": map[string]any{"bad": math.NaN(), "good": "x"},
		"list":   []any{math.NaN(), "ok", 1.5},
	}

	out := ScrubProperties(in)
	assert.Equal(t, "ABC", out["name"])
	assert.Equal(t, "", out["nan"])
	assert.Equal(t, "", out["inf"])
	assert.Equal(t, 41.59, out["num"])
	assert.Equal(t, "", out["nested"].(map[string]any)["bad"])
	assert.Equal(t, "", out["list"].([]any)[0])
	assert.Equal(t, "ok", out["list"].([]any)[1])

	// Scrubbed output must serialize as valid JSON.
	_, err := json.Marshal(out)
	require.NoError(t, err)
}

func TestFeature(t *testing.T) {
	e := model.EnrichedContact{
		Contact: model.ContactRecord{
			Retailer:    "ABC Cooperative",
			ContactName: "Jo Smith",
			Email:       "jo@example.com",
		},
		Category:     model.CategoryGrainFeed,
		FacilityName: "Main Office",
		Suppliers:    "Bayer, Corteva",
		Address:      "123 Main St",
		City:         "Ames",
		State:        "IA",
		Zip:          "50010",
		Tier:         model.TierExact,
		Coord:        &model.CoordinatePair{Lon: -93.62, Lat: 41.59, Source: model.SourceFacility},
	}

	f := Feature(e)
	pt, ok := f.Geometry.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, -93.62, pt.X())
	assert.Equal(t, 41.59, pt.Y())

	assert.Equal(t, "ABC Cooperative", f.Properties["Retailer"])
	assert.Equal(t, "Exact", f.Properties["MatchTier"])
	assert.Equal(t, "facility", f.Properties["CoordSource"])
	assert.Equal(t, "Main Office", f.Properties["Name"])
	_, hasLongName := f.Properties["LongName"]
	assert.False(t, hasLongName, "empty long name omitted")
	_, hasLabel := f.Properties["Label"]
	assert.False(t, hasLabel, "no label unless synthesized")
}

func TestWriteGeoJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.geojson")
	e := model.EnrichedContact{
		Contact: model.ContactRecord{Retailer: "ABC"},
		Tier:    model.TierNone,
		Coord:   &model.CoordinatePair{Lon: -93.0, Lat: 41.0, Source: model.SourceGeocode},
	}
	require.NoError(t, WriteGeoJSON(path, []*geojson.Feature{Feature(e)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Len(t, doc["features"], 1)
}

func TestWriteAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	contacts := []model.EnrichedContact{
		{
			Contact: model.ContactRecord{Retailer: "ABC", ContactName: "Jo Smith", Row: 3, SourceSheet: "IA"},
			Address: "123 Main St", City: "Ames", State: "IA", Zip: "50010",
			Tier:  model.TierExact,
			Coord: &model.CoordinatePair{Lon: -93.62, Lat: 41.59, Source: model.SourceFacility},
		},
		{
			Contact:     model.ContactRecord{Retailer: "XYZ", ContactName: "Pat Doe", Row: 9},
			Tier:        model.TierNone,
			Diagnostics: []string{"one", "two"},
		},
	}
	require.NoError(t, WriteAudit(path, "Resolved", contacts))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "Resolved", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Retailer", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "ABC", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "-93.62", sheet.Rows[1].Cells[17].String())
	// Unresolved row carries empty coordinates and joined diagnostics.
	assert.Equal(t, "", sheet.Rows[2].Cells[17].String())
	assert.Equal(t, "one; two", sheet.Rows[2].Cells[21].String())
}

func TestConvertWorkbook(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.xlsx")
	out := filepath.Join(dir, "out.geojson")

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"Name", "Latitude", "Longitude"},
		{"Ames", "41.59", "-93.62"},
		{"Bad", "not-a-number", "-93.0"},
		{"Paris", "48.86", "2.35"},
	} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	require.NoError(t, wb.Save(src))

	band := validate.ConusBand
	written, skipped, err := ConvertWorkbook(src, out, &band)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	assert.Equal(t, 2, skipped)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	features := doc["features"].([]any)
	require.Len(t, features, 1)
	props := features[0].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "Ames", props["Name"])
}

func TestConvertWorkbookMissingColumns(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.xlsx")

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, row := range [][]string{{"Name", "City"}, {"A", "Ames"}} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	require.NoError(t, wb.Save(src))

	_, _, err = ConvertWorkbook(src, filepath.Join(dir, "out.geojson"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Latitude/Longitude")
}

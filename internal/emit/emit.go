// Package emit assembles the final outputs: the resolved GeoJSON feature
// collection, the resolved/unresolved audit workbooks, and the run report.
package emit

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/certis-maps/agroute-cli/internal/model"
)

// Feature converts one resolved contact into a GeoJSON point feature with
// full provenance properties. The caller guarantees the coordinate already
// passed validation.
func Feature(e model.EnrichedContact) *geojson.Feature {
	props := map[string]any{
		"Retailer":    e.Contact.Retailer,
		"ContactName": e.Contact.ContactName,
		"Title":       e.Contact.Title,
		"Address":     e.Address,
		"City":        e.City,
		"State":       e.State,
		"Zip":         e.Zip,
		"OfficePhone": e.Contact.OfficePhone,
		"CellPhone":   e.Contact.CellPhone,
		"Email":       e.Contact.Email,
		"Suppliers":   e.Suppliers,
		"Category":    e.Category,
		"MatchTier":   string(e.Tier),
		"CoordSource": string(e.Coord.Source),
	}
	if e.FacilityName != "" {
		props["Name"] = e.FacilityName
	}
	if e.LongName != "" {
		props["LongName"] = e.LongName
	}
	if e.Label != "" {
		props["Label"] = e.Label
	}

	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{e.Coord.Lon, e.Coord.Lat}),
		Properties: ScrubProperties(props),
	}
}

// WriteGeoJSON writes a feature collection, indented for diffability.
func WriteGeoJSON(path string, features []*geojson.Feature) error {
	fc := geojson.FeatureCollection{Features: features}
	data, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "emit: marshal feature collection")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "emit: write %s", path)
	}
	zap.L().Info("geojson written", zap.String("path", path), zap.Int("features", len(features)))
	return nil
}

// auditColumns is the fixed column order of both audit workbooks.
var auditColumns = []string{
	"Retailer", "Contact Name", "Title", "Address", "City", "State", "Zip",
	"Office Phone", "Cell Phone", "Email", "Suppliers", "Category",
	"Facility Name", "Long Name", "Label", "Match Tier", "Coord Source",
	"Longitude", "Latitude", "Source Sheet", "Row", "Diagnostics",
}

// WriteAudit writes an audit workbook for resolved or unresolved contacts.
// Unresolved rows simply have empty coordinate columns.
func WriteAudit(path, sheetName string, contacts []model.EnrichedContact) error {
	out := xlsx.NewFile()
	sheet, err := out.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "emit: add audit sheet")
	}

	headerRow := sheet.AddRow()
	for _, col := range auditColumns {
		headerRow.AddCell().SetString(col)
	}

	for _, e := range contacts {
		lon, lat, source := "", "", ""
		if e.Coord != nil {
			lon = strconv.FormatFloat(e.Coord.Lon, 'f', -1, 64)
			lat = strconv.FormatFloat(e.Coord.Lat, 'f', -1, 64)
			source = string(e.Coord.Source)
		}

		row := sheet.AddRow()
		for _, v := range []string{
			e.Contact.Retailer, e.Contact.ContactName, e.Contact.Title,
			e.Address, e.City, e.State, e.Zip,
			e.Contact.OfficePhone, e.Contact.CellPhone, e.Contact.Email,
			e.Suppliers, e.Category, e.FacilityName, e.LongName, e.Label,
			string(e.Tier), source, lon, lat,
			e.Contact.SourceSheet, strconv.Itoa(e.Contact.Row),
			joinDiagnostics(e.Diagnostics),
		} {
			row.AddCell().SetString(v)
		}
	}

	if err := out.Save(path); err != nil {
		return eris.Wrapf(err, "emit: save audit workbook %s", path)
	}
	zap.L().Info("audit workbook written", zap.String("path", path), zap.Int("rows", len(contacts)))
	return nil
}

func joinDiagnostics(diags []string) string {
	out := ""
	for i, d := range diags {
		if i > 0 {
			out += "; "
		}
		out += d
	}
	return out
}

// WriteReport writes the run-statistics report as YAML.
func WriteReport(path string, stats *model.RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "emit: marshal run report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "emit: write %s", path)
	}
	return nil
}

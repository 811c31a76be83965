package emit

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/validate"
)

// coordinate column spellings accepted by ConvertWorkbook.
var (
	latHeaders = map[string]bool{"lat": true, "latitude": true}
	lonHeaders = map[string]bool{"lon": true, "lng": true, "long": true, "longitude": true}
)

// ConvertWorkbook turns a spreadsheet with Latitude/Longitude columns into a
// GeoJSON point feature collection. Every non-coordinate column becomes a
// property verbatim. Rows whose coordinates fail the validity gate (or the
// optional band) are skipped and counted. Returns (written, skipped).
func ConvertWorkbook(srcPath, outPath string, band *validate.Band) (int, int, error) {
	f, err := xlsx.OpenFile(srcPath)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "emit: open workbook %s", srcPath)
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) < 2 {
		return 0, 0, eris.Errorf("emit: workbook %s has no data rows", srcPath)
	}

	sheet := f.Sheets[0]
	headers := make([]string, len(sheet.Rows[0].Cells))
	latIdx, lonIdx := -1, -1
	for i, cell := range sheet.Rows[0].Cells {
		headers[i] = strings.TrimSpace(cell.String())
		switch h := strings.ToLower(headers[i]); {
		case latHeaders[h]:
			latIdx = i
		case lonHeaders[h]:
			lonIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return 0, 0, eris.Errorf("emit: workbook %s missing Latitude/Longitude columns", srcPath)
	}

	v := validate.NewValidator(band)
	var features []*geojson.Feature
	skipped := 0
	for _, row := range sheet.Rows[1:] {
		cells := row.Cells
		lat, errLat := strconv.ParseFloat(cellAt(cells, latIdx), 64)
		lon, errLon := strconv.ParseFloat(cellAt(cells, lonIdx), 64)
		if errLat != nil || errLon != nil {
			skipped++
			continue
		}
		pair := model.CoordinatePair{Lon: lon, Lat: lat}
		if v.Check(&pair) != validate.OK {
			skipped++
			continue
		}

		props := make(map[string]any, len(headers))
		for i, h := range headers {
			if i == latIdx || i == lonIdx || h == "" {
				continue
			}
			props[h] = cellAt(cells, i)
		}

		features = append(features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}),
			Properties: ScrubProperties(props),
		})
	}

	if err := WriteGeoJSON(outPath, features); err != nil {
		return 0, 0, err
	}
	if skipped > 0 {
		zap.L().Warn("rows skipped during conversion", zap.Int("skipped", skipped))
	}
	return len(features), skipped, nil
}

func cellAt(cells []*xlsx.Cell, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i].String())
}

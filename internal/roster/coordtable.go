package roster

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// LoadCoordTable reads the authoritative coordinate workbook: contact
// identity columns plus Latitude/Longitude. Rows without a parseable
// coordinate contribute nothing and are skipped.
func LoadCoordTable(path string) ([]model.CoordRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: open coordinate table %s", path)
	}

	var rows []model.CoordRow
	skipped := 0
	for _, sheet := range f.Sheets {
		if len(sheet.Rows) < 2 {
			continue
		}

		header := resolveHeaders(rowToStrings(sheet.Rows[0]), contactAliases)
		if !header.has(FieldLat) || !header.has(FieldLon) {
			zap.L().Debug("coordinate table sheet lacks lat/lon columns", zap.String("sheet", sheet.Name))
			continue
		}

		for _, row := range sheet.Rows[1:] {
			cells := rowToStrings(row)
			lat, errLat := strconv.ParseFloat(header.get(cells, FieldLat), 64)
			lon, errLon := strconv.ParseFloat(header.get(cells, FieldLon), 64)
			if errLat != nil || errLon != nil {
				skipped++
				continue
			}
			rows = append(rows, model.CoordRow{
				Retailer: header.get(cells, FieldRetailer),
				Address:  header.get(cells, FieldAddress),
				City:     header.get(cells, FieldCity),
				State:    header.get(cells, FieldState),
				Zip:      normalize.Zip(header.get(cells, FieldZip)),
				Lat:      lat,
				Lon:      lon,
			})
		}
	}

	zap.L().Info("coordinate table loaded",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
	)
	return rows, nil
}

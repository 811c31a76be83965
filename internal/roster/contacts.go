package roster

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// LoadContacts reads every sheet of the contact roster workbook into
// ContactRecords. Blank rows are kept so the pipeline's drop counters
// account for every input row. Sheets whose header resolves neither a
// retailer nor a contact name column are skipped as non-roster sheets.
func LoadContacts(path string) ([]model.ContactRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: open contacts workbook %s", path)
	}

	var contacts []model.ContactRecord
	for _, sheet := range f.Sheets {
		if len(sheet.Rows) == 0 {
			continue
		}

		header := resolveHeaders(rowToStrings(sheet.Rows[0]), contactAliases)
		if !header.has(FieldRetailer) && !header.has(FieldContactName) {
			zap.L().Debug("skipping non-roster sheet", zap.String("sheet", sheet.Name))
			continue
		}

		for i, row := range sheet.Rows[1:] {
			cells := rowToStrings(row)
			c := model.ContactRecord{
				Retailer:    header.get(cells, FieldRetailer),
				ContactName: header.get(cells, FieldContactName),
				Title:       header.get(cells, FieldTitle),
				Address:     header.get(cells, FieldAddress),
				City:        header.get(cells, FieldCity),
				State:       header.get(cells, FieldState),
				Zip:         normalize.Zip(header.get(cells, FieldZip)),
				FullAddress: header.get(cells, FieldFullAddress),
				OfficePhone: header.get(cells, FieldOfficePhone),
				CellPhone:   header.get(cells, FieldCellPhone),
				Email:       header.get(cells, FieldEmail),
				Suppliers:   header.get(cells, FieldSuppliers),
				SourceSheet: sheet.Name,
				Row:         i + 2, // 1-based, after header
			}

			if lat, lon, ok := parseLatLon(header.get(cells, FieldLat), header.get(cells, FieldLon)); ok {
				c.HasCoords = true
				c.Lat = lat
				c.Lon = lon
			}

			contacts = append(contacts, c)
		}
	}

	zap.L().Info("contacts loaded", zap.String("path", path), zap.Int("rows", len(contacts)))
	return contacts, nil
}

// parseLatLon parses pre-existing coordinate columns; both must parse to a
// real number for the pair to count.
func parseLatLon(latStr, lonStr string) (lat, lon float64, ok bool) {
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

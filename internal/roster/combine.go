package roster

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// combinedColumns is the fixed column order of the merged facility workbook.
var combinedColumns = []string{
	"Long Name", "Retailer", "Name", "Address", "City",
	"State", "Zip", "Category", "Suppliers", "Source Sheet",
}

// combinedRow is one normalized facility row from any source sheet.
type combinedRow struct {
	LongName  string
	Retailer  string
	Name      string
	Address   string
	City      string
	State     string
	Zip       string
	Category  string
	Suppliers string
	Sheet     string
}

func (r combinedRow) values() []string {
	return []string{r.LongName, r.Retailer, r.Name, r.Address, r.City,
		r.State, r.Zip, r.Category, r.Suppliers, r.Sheet}
}

// CombineSheets merges every worksheet of a breakout facility workbook into
// one workbook with a uniform schema: headers normalized through the alias
// table, categories canonicalized (Unknown when absent), rows without a
// name or address dropped, exact duplicates removed, and the result sorted
// by State, Retailer, City, Name. Returns the number of rows written.
func CombineSheets(srcPath, outPath string) (int, error) {
	f, err := xlsx.OpenFile(srcPath)
	if err != nil {
		return 0, eris.Wrapf(err, "roster: open breakout workbook %s", srcPath)
	}

	var rows []combinedRow
	seen := make(map[combinedRow]bool)
	for _, sheet := range f.Sheets {
		if len(sheet.Rows) < 2 {
			continue
		}
		header := resolveHeaders(rowToStrings(sheet.Rows[0]), facilityAliases)

		kept := 0
		for _, raw := range sheet.Rows[1:] {
			cells := rowToStrings(raw)
			row := combinedRow{
				LongName:  header.get(cells, FieldLongName),
				Retailer:  header.get(cells, FieldRetailer),
				Name:      header.get(cells, FieldName),
				Address:   header.get(cells, FieldAddress),
				City:      header.get(cells, FieldCity),
				State:     normalize.State(header.get(cells, FieldState)),
				Zip:       normalize.Zip(header.get(cells, FieldZip)),
				Category:  categoryOrUnknown(header.get(cells, FieldCategory)),
				Suppliers: normalize.Suppliers(header.get(cells, FieldSuppliers)),
				Sheet:     sheet.Name,
			}

			if row.Name == "" && row.Address == "" {
				continue
			}
			if seen[row] {
				continue
			}
			seen[row] = true
			rows = append(rows, row)
			kept++
		}
		zap.L().Info("combined sheet", zap.String("sheet", sheet.Name), zap.Int("rows", kept))
	}

	if len(rows) == 0 {
		return 0, eris.New("roster: no usable rows in any sheet")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.Retailer != b.Retailer {
			return a.Retailer < b.Retailer
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Name < b.Name
	})

	if err := writeCombined(rows, outPath); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// categoryOrUnknown canonicalizes a category, defaulting to Unknown. The
// Agronomy default only applies later, at facility index time.
func categoryOrUnknown(s string) string {
	if c := normalize.Category(s); c != "" {
		return c
	}
	return model.CategoryUnknown
}

func writeCombined(rows []combinedRow, outPath string) error {
	out := xlsx.NewFile()
	sheet, err := out.AddSheet("Combined")
	if err != nil {
		return eris.Wrap(err, "roster: add combined sheet")
	}

	headerRow := sheet.AddRow()
	for _, col := range combinedColumns {
		headerRow.AddCell().SetString(col)
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row.values() {
			r.AddCell().SetString(v)
		}
	}

	return eris.Wrapf(out.Save(outPath), "roster: save combined workbook %s", outPath)
}

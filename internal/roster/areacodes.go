package roster

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
)

// LoadAreaCodes reads the area-code city-center CSV
// (area_code,city,state,zip,lat,lon in any column order) into a lookup map.
func LoadAreaCodes(path string) (map[string]model.AreaCodeCenter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: open area codes %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "roster: read area code header")
	}
	cols := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"area_code", "city", "state", "zip", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Errorf("roster: area code table missing column %q", required)
		}
	}

	get := func(row []string, name string) string {
		if i := cols[name]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	centers := make(map[string]model.AreaCodeCenter)
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "roster: read area code row")
		}

		lat, errLat := strconv.ParseFloat(get(row, "lat"), 64)
		lon, errLon := strconv.ParseFloat(get(row, "lon"), 64)
		code := get(row, "area_code")
		if code == "" || len(code) != 3 || errLat != nil || errLon != nil {
			skipped++
			continue
		}

		centers[code] = model.AreaCodeCenter{
			AreaCode: code,
			City:     get(row, "city"),
			State:    strings.ToUpper(get(row, "state")),
			Zip:      get(row, "zip"),
			Lat:      lat,
			Lon:      lon,
		}
	}

	zap.L().Info("area code centers loaded",
		zap.String("path", path),
		zap.Int("centers", len(centers)),
		zap.Int("skipped", skipped),
	)
	return centers, nil
}

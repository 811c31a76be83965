package roster

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
)

// LoadFacilities reads the facility point feature collection. Non-point
// features are skipped with a warning; property lookup tolerates a few
// historical key spellings.
func LoadFacilities(path string) ([]model.FacilityRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: read facilities %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "roster: parse facilities geojson")
	}

	facilities := make([]model.FacilityRecord, 0, len(fc.Features))
	skipped := 0
	for _, feat := range fc.Features {
		pt, ok := feat.Geometry.(*geom.Point)
		if !ok || pt == nil {
			skipped++
			continue
		}
		coords := pt.Coords()
		if len(coords) < 2 {
			skipped++
			continue
		}

		props := feat.Properties
		facilities = append(facilities, model.FacilityRecord{
			Retailer:  propString(props, "Retailer", "RetailerName"),
			Name:      propString(props, "Name", "FacilityName"),
			LongName:  propString(props, "LongName", "Long Name"),
			Address:   propString(props, "Address"),
			City:      propString(props, "City"),
			State:     propString(props, "State"),
			Zip:       propString(props, "Zip", "ZipCode", "Zip Code"),
			Category:  propString(props, "Category"),
			Suppliers: propString(props, "Suppliers", "Supplier"),
			Lon:       coords[0],
			Lat:       coords[1],
		})
	}

	if skipped > 0 {
		zap.L().Warn("skipped non-point facility features", zap.Int("skipped", skipped))
	}
	zap.L().Info("facilities loaded", zap.String("path", path), zap.Int("features", len(facilities)))
	return facilities, nil
}

// propString pulls the first present key from a property map, rendering
// numbers without a trailing ".0" so zip codes survive float coercion.
func propString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := props[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return ""
			}
			if t == math.Trunc(t) {
				return fmt.Sprintf("%.0f", t)
			}
			return fmt.Sprintf("%v", t)
		default:
			return strings.TrimSpace(fmt.Sprintf("%v", t))
		}
	}
	return ""
}

// Package resolve determines a final coordinate for each contact through a
// layered fallback chain: authoritative table, matched facility, cached or
// remote geocode, then phone area-code city-center placement.
package resolve

import (
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// CoordIndex indexes the authoritative coordinate table at four key
// granularities. Relaxed keys (everything below the exact 5-part key) only
// yield a coordinate when every row sharing the key agrees on it, so a
// malformed zip can never silently pick one of several distinct addresses.
type CoordIndex struct {
	exact         map[string][]model.CoordinatePair
	addrNoZip     map[string][]model.CoordinatePair
	city          map[string][]model.CoordinatePair
	retailerState map[string][]model.CoordinatePair
}

// NewCoordIndex builds the index from authoritative rows. Rows without a
// normalized retailer are skipped; the remaining key parts participate in
// whichever granularities they can.
func NewCoordIndex(rows []model.CoordRow) *CoordIndex {
	ix := &CoordIndex{
		exact:         make(map[string][]model.CoordinatePair),
		addrNoZip:     make(map[string][]model.CoordinatePair),
		city:          make(map[string][]model.CoordinatePair),
		retailerState: make(map[string][]model.CoordinatePair),
	}

	for _, row := range rows {
		key := normalize.Key(row.Retailer, row.Address, row.City, row.State, row.Zip)
		if key.Retailer == "" {
			continue
		}
		pair := model.CoordinatePair{Lon: row.Lon, Lat: row.Lat, Source: model.SourceAuthoritative}

		if key.Street != "" && key.City != "" && key.State != "" {
			if key.Zip != "" {
				ix.exact[key.AddressKey()] = append(ix.exact[key.AddressKey()], pair)
			}
			ix.addrNoZip[key.AddressNoZipKey()] = append(ix.addrNoZip[key.AddressNoZipKey()], pair)
		}
		if key.City != "" && key.State != "" && key.Zip != "" {
			ix.city[key.CityKey()] = append(ix.city[key.CityKey()], pair)
		}
		if key.State != "" {
			ix.retailerState[key.RetailerStateKey()] = append(ix.retailerState[key.RetailerStateKey()], pair)
		}
	}

	zap.L().Debug("authoritative coordinate index built",
		zap.Int("rows", len(rows)),
		zap.Int("exact_keys", len(ix.exact)),
		zap.Int("addr_no_zip_keys", len(ix.addrNoZip)),
		zap.Int("city_keys", len(ix.city)),
		zap.Int("retailer_state_keys", len(ix.retailerState)),
	)
	return ix
}

// Lookup tries the four granularities in order, strictest first. The exact
// key accepts the first row; relaxed keys require agreement across all rows.
func (ix *CoordIndex) Lookup(key model.NormalizedKey) (model.CoordinatePair, bool) {
	if pairs := ix.exact[key.AddressKey()]; len(pairs) > 0 {
		return pairs[0], true
	}
	for _, pairs := range [][]model.CoordinatePair{
		ix.addrNoZip[key.AddressNoZipKey()],
		ix.city[key.CityKey()],
		ix.retailerState[key.RetailerStateKey()],
	} {
		if pair, ok := agreed(pairs); ok {
			return pair, true
		}
	}
	return model.CoordinatePair{}, false
}

// agreed returns the common coordinate when all pairs are identical.
func agreed(pairs []model.CoordinatePair) (model.CoordinatePair, bool) {
	if len(pairs) == 0 {
		return model.CoordinatePair{}, false
	}
	first := pairs[0]
	for _, p := range pairs[1:] {
		if p.Lon != first.Lon || p.Lat != first.Lat {
			return model.CoordinatePair{}, false
		}
	}
	return first, true
}

// Package match builds lookup indices over the facility dataset and applies
// the tiered contact-to-facility matching policy.
package match

import (
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// Index holds the three facility lookup structures, keyed by normalized
// tuples. Built once, read-only afterwards.
type Index struct {
	byAddress       map[string][]*model.FacilityRecord
	byCity          map[string][]*model.FacilityRecord
	byRetailerState map[string][]*model.FacilityRecord
}

// NewIndex builds the index from all facilities that carry a non-empty
// retailer, address, city, state, and zip. Facilities without a canonical
// category default to Agronomy. Key collisions keep every candidate; the
// tie-break in Resolve disambiguates.
func NewIndex(facilities []model.FacilityRecord) *Index {
	ix := &Index{
		byAddress:       make(map[string][]*model.FacilityRecord),
		byCity:          make(map[string][]*model.FacilityRecord),
		byRetailerState: make(map[string][]*model.FacilityRecord),
	}

	indexed := 0
	for i := range facilities {
		f := &facilities[i]
		if f.Category = normalize.Category(f.Category); f.Category == "" {
			f.Category = model.CategoryAgronomy
		}

		key := normalize.Key(f.Retailer, f.Address, f.City, f.State, f.Zip)
		if key.Retailer == "" || key.Street == "" || key.City == "" || key.State == "" || key.Zip == "" {
			continue
		}

		ix.byAddress[key.AddressKey()] = append(ix.byAddress[key.AddressKey()], f)
		ix.byCity[key.CityKey()] = append(ix.byCity[key.CityKey()], f)
		ix.byRetailerState[key.RetailerStateKey()] = append(ix.byRetailerState[key.RetailerStateKey()], f)
		indexed++
	}

	zap.L().Debug("facility index built",
		zap.Int("facilities", len(facilities)),
		zap.Int("indexed", indexed),
		zap.Int("address_keys", len(ix.byAddress)),
		zap.Int("city_keys", len(ix.byCity)),
		zap.Int("retailer_state_keys", len(ix.byRetailerState)),
	)
	return ix
}

// Resolve applies the tiered policy, strictly ordered, first success wins:
//
//	T1 exact 5-part address key
//	T2 city-level key, only when it maps to exactly one facility
//	T3 retailer+state key
//
// Ambiguous city candidates are deliberately left unresolved at T2 —
// precision over recall.
func (ix *Index) Resolve(key model.NormalizedKey) model.MatchResult {
	if cands := ix.byAddress[key.AddressKey()]; len(cands) > 0 {
		return model.MatchResult{Tier: model.TierExact, Facility: Best(cands)}
	}

	if cands := ix.byCity[key.CityKey()]; len(cands) == 1 {
		return model.MatchResult{Tier: model.TierCity, Facility: cands[0]}
	}

	if cands := ix.byRetailerState[key.RetailerStateKey()]; len(cands) > 0 {
		return model.MatchResult{Tier: model.TierRetailerState, Facility: Best(cands)}
	}

	return model.MatchResult{Tier: model.TierNone}
}

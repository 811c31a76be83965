package match

import "github.com/certis-maps/agroute-cli/internal/model"

// Best picks a single deterministic winner from colliding candidates:
// Corporate HQ first, then the longest raw address, then the longer of
// {site name, long name}. Remaining ties keep the earlier candidate, so the
// result is stable for a given input order.
func Best(cands []*model.FacilityRecord) *model.FacilityRecord {
	if len(cands) == 0 {
		return nil
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if preferred(c, best) {
			best = c
		}
	}
	return best
}

// preferred reports whether a should strictly beat b.
func preferred(a, b *model.FacilityRecord) bool {
	aHQ := a.Category == model.CategoryCorporateHQ
	bHQ := b.Category == model.CategoryCorporateHQ
	if aHQ != bHQ {
		return aHQ
	}
	if len(a.Address) != len(b.Address) {
		return len(a.Address) > len(b.Address)
	}
	return nameLen(a) > nameLen(b)
}

func nameLen(f *model.FacilityRecord) int {
	if len(f.Name) > len(f.LongName) {
		return len(f.Name)
	}
	return len(f.LongName)
}

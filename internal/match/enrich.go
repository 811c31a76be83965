package match

import (
	"strings"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

// Enrich applies a match result to an enriched contact: category, facility
// name, and long name come from the facility, and the facility's supplier
// list overrides the contact's own when it is non-empty and not "TBD".
// Unmatched contacts keep their own fields and default to Agronomy.
func Enrich(e *model.EnrichedContact, m model.MatchResult) {
	e.Tier = m.Tier
	e.Suppliers = normalize.Suppliers(e.Contact.Suppliers)

	if !m.Matched() {
		e.Category = model.CategoryAgronomy
		return
	}

	f := m.Facility
	e.Category = f.Category
	e.FacilityName = f.Name
	e.LongName = f.LongName

	if s := normalize.Suppliers(f.Suppliers); s != "" && !strings.EqualFold(s, "TBD") {
		e.Suppliers = s
	}
}

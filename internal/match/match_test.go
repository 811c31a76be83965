package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
)

func facility(retailer, name, address, city, state, zip string) model.FacilityRecord {
	return model.FacilityRecord{
		Retailer: retailer,
		Name:     name,
		Address:  address,
		City:     city,
		State:    state,
		Zip:      zip,
		Category: "Agronomy",
	}
}

func TestResolveExact(t *testing.T) {
	ix := NewIndex([]model.FacilityRecord{
		facility("ABC Cooperative", "Main Office", "123 Main St", "Ames", "IA", "50010"),
		facility("ABC Cooperative", "North Branch", "500 Oak Ave", "Ames", "IA", "50010"),
	})

	key := normalize.Key("ABC Co-op - IA", "123 Main Street", "Ames", "ia", "50010")
	m := ix.Resolve(key)
	require.True(t, m.Matched())
	assert.Equal(t, model.TierExact, m.Tier)
	assert.Equal(t, "Main Office", m.Facility.Name)
}

func TestResolveCityRequiresUniqueness(t *testing.T) {
	// Two facilities in the same city: the city tier must refuse to pick,
	// and the retailer+state tier catches the contact instead.
	ix := NewIndex([]model.FacilityRecord{
		facility("ABC Cooperative", "Main Office", "123 Main St", "Ames", "IA", "50010"),
		facility("ABC Cooperative", "North Branch", "500 Oak Ave", "Ames", "IA", "50010"),
	})

	key := normalize.Key("ABC Cooperative", "999 Nowhere Rd", "Ames", "IA", "50010")
	m := ix.Resolve(key)
	require.True(t, m.Matched())
	assert.Equal(t, model.TierRetailerState, m.Tier)
}

func TestResolveCityUnique(t *testing.T) {
	ix := NewIndex([]model.FacilityRecord{
		facility("ABC Cooperative", "Main Office", "123 Main St", "Ames", "IA", "50010"),
	})

	key := normalize.Key("ABC Cooperative", "999 Nowhere Rd", "Ames", "IA", "50010")
	m := ix.Resolve(key)
	require.True(t, m.Matched())
	assert.Equal(t, model.TierCity, m.Tier)
	assert.Equal(t, "Main Office", m.Facility.Name)
}

func TestResolveNone(t *testing.T) {
	ix := NewIndex([]model.FacilityRecord{
		facility("ABC Cooperative", "Main Office", "123 Main St", "Ames", "IA", "50010"),
	})

	m := ix.Resolve(normalize.Key("Other Retailer", "1 Elm St", "Omaha", "NE", "68102"))
	assert.False(t, m.Matched())
	assert.Equal(t, model.TierNone, m.Tier)
}

func TestIndexSkipsIncompleteFacilities(t *testing.T) {
	ix := NewIndex([]model.FacilityRecord{
		facility("ABC Cooperative", "No Zip", "123 Main St", "Ames", "IA", ""),
	})

	m := ix.Resolve(normalize.Key("ABC Cooperative", "123 Main St", "Ames", "IA", "50010"))
	assert.False(t, m.Matched())
}

func TestBestPrefersCorporateHQ(t *testing.T) {
	branch := facility("ABC", "Branch", "123 Main St Suite 100", "Ames", "IA", "50010")
	hq := facility("ABC", "HQ", "1 Short St", "Ames", "IA", "50010")
	hq.Category = model.CategoryCorporateHQ

	got := Best([]*model.FacilityRecord{&branch, &hq})
	assert.Equal(t, "HQ", got.Name)
}

func TestBestPrefersLongerAddress(t *testing.T) {
	a := facility("ABC", "A", "123 Main St", "Ames", "IA", "50010")
	b := facility("ABC", "B", "123 Main St Suite 100", "Ames", "IA", "50010")

	got := Best([]*model.FacilityRecord{&a, &b})
	assert.Equal(t, "B", got.Name)
}

func TestBestTiesAreStable(t *testing.T) {
	a := facility("ABC", "Aaaa", "123 Main St", "Ames", "IA", "50010")
	b := facility("ABC", "Bbbb", "123 Oak Ave", "Ames", "IA", "50010")

	assert.Equal(t, "Aaaa", Best([]*model.FacilityRecord{&a, &b}).Name)
	assert.Equal(t, "Bbbb", Best([]*model.FacilityRecord{&b, &a}).Name)
}

func TestEnrichMatched(t *testing.T) {
	f := facility("ABC", "Main Office", "123 Main St", "Ames", "IA", "50010")
	f.LongName = "ABC Cooperative Main Office"
	f.Category = model.CategoryGrainFeed
	f.Suppliers = "Bayer; Corteva"

	e := model.EnrichedContact{Contact: model.ContactRecord{Suppliers: "Old Supplier"}}
	Enrich(&e, model.MatchResult{Tier: model.TierExact, Facility: &f})

	assert.Equal(t, model.TierExact, e.Tier)
	assert.Equal(t, model.CategoryGrainFeed, e.Category)
	assert.Equal(t, "Main Office", e.FacilityName)
	assert.Equal(t, "ABC Cooperative Main Office", e.LongName)
	assert.Equal(t, "Bayer, Corteva", e.Suppliers)
}

func TestEnrichTBDSuppliersDoNotOverride(t *testing.T) {
	f := facility("ABC", "Main Office", "123 Main St", "Ames", "IA", "50010")
	f.Suppliers = "TBD"

	e := model.EnrichedContact{Contact: model.ContactRecord{Suppliers: "Bayer"}}
	Enrich(&e, model.MatchResult{Tier: model.TierExact, Facility: &f})

	assert.Equal(t, "Bayer", e.Suppliers)
}

func TestEnrichUnmatchedDefaults(t *testing.T) {
	e := model.EnrichedContact{Contact: model.ContactRecord{Suppliers: "Bayer"}}
	Enrich(&e, model.MatchResult{Tier: model.TierNone})

	assert.Equal(t, model.CategoryAgronomy, e.Category)
	assert.Equal(t, "Bayer", e.Suppliers)
	assert.Empty(t, e.FacilityName)
}

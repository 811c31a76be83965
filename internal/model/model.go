// Package model defines the record types shared across the reconciliation
// pipeline: contacts, facilities, match results, and resolved coordinates.
package model

import (
	"fmt"
	"math"
)

// Canonical facility categories.
const (
	CategoryAgronomy     = "Agronomy"
	CategoryGrainFeed    = "Grain/Feed"
	CategoryDistribution = "Distribution"
	CategoryCStore       = "C-Store/Service/Energy"
	CategoryCorporateHQ  = "Corporate HQ"
	CategoryKingpin      = "Kingpin"
	CategoryUnknown      = "Unknown"
)

// Tier identifies the precision level at which a contact matched a facility.
type Tier string

// Match tiers, ordered from most to least precise.
const (
	TierExact         Tier = "Exact"
	TierCity          Tier = "City"
	TierRetailerState Tier = "RetailerState"
	TierNone          Tier = "None"
)

// CoordSource tags where a resolved coordinate came from.
type CoordSource string

// Coordinate sources.
const (
	SourceRoster        CoordSource = "roster"
	SourceAuthoritative CoordSource = "authoritative"
	SourceFacility      CoordSource = "facility"
	SourceGeocode       CoordSource = "geocode"
	SourceAreaCode      CoordSource = "areacode"
)

// CoordRow is one row of the authoritative coordinate table: the contact
// identity fields plus a known-good coordinate.
type CoordRow struct {
	Retailer string  `json:"retailer"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Zip      string  `json:"zip"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
}

// ContactRecord is one kingpin row from the contact roster. Source fields are
// never mutated after load; enrichment lands on EnrichedContact.
type ContactRecord struct {
	Retailer    string `json:"retailer"`
	ContactName string `json:"contact_name"`
	Title       string `json:"title,omitempty"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	FullAddress string `json:"full_address,omitempty"`
	OfficePhone string `json:"office_phone,omitempty"`
	CellPhone   string `json:"cell_phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Suppliers   string `json:"suppliers,omitempty"`
	SourceSheet string `json:"source_sheet,omitempty"`
	Row         int    `json:"row"`

	// Pre-existing coordinates from LAT/LON columns, when the roster carries
	// them. A record missing identifying fields but carrying coordinates is
	// kept with a diagnostic instead of dropped.
	HasCoords bool    `json:"has_coords,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
}

// Blank reports whether the record has no identifying content at all.
func (c ContactRecord) Blank() bool {
	return c.Retailer == "" && c.ContactName == "" && c.Address == "" &&
		c.City == "" && c.State == "" && c.Zip == "" && c.FullAddress == "" &&
		c.OfficePhone == "" && c.CellPhone == "" && c.Email == ""
}

// FacilityRecord is one known retail location from the facility feature
// collection. Read-only during resolution.
type FacilityRecord struct {
	Retailer  string  `json:"retailer"`
	Name      string  `json:"name"`
	LongName  string  `json:"long_name,omitempty"`
	Address   string  `json:"address"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip"`
	Category  string  `json:"category"`
	Suppliers string  `json:"suppliers,omitempty"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
}

// NormalizedKey is the canonicalized identity tuple used for index lookups.
// Values are comparison keys, never display values.
type NormalizedKey struct {
	Retailer string
	Street   string
	City     string
	State    string
	Zip      string
}

// AddressKey is the full 5-part exact-address lookup key.
func (k NormalizedKey) AddressKey() string {
	return k.Retailer + "|" + k.Street + "|" + k.City + "|" + k.State + "|" + k.Zip
}

// AddressNoZipKey relaxes AddressKey by dropping the zip, for rows whose zip
// is malformed or missing.
func (k NormalizedKey) AddressNoZipKey() string {
	return k.Retailer + "|" + k.Street + "|" + k.City + "|" + k.State
}

// CityKey is the city-level lookup key.
func (k NormalizedKey) CityKey() string {
	return k.Retailer + "|" + k.City + "|" + k.State + "|" + k.Zip
}

// RetailerStateKey is the coarsest lookup key.
func (k NormalizedKey) RetailerStateKey() string {
	return k.Retailer + "|" + k.State
}

// CoordinatePair is a source-tagged (longitude, latitude) pair.
type CoordinatePair struct {
	Lon    float64     `json:"lon"`
	Lat    float64     `json:"lat"`
	Source CoordSource `json:"source"`
}

// Finite reports whether both components are real numbers.
func (p CoordinatePair) Finite() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// MatchResult is the outcome of the tiered facility match for one contact.
type MatchResult struct {
	Tier     Tier
	Facility *FacilityRecord
}

// Matched reports whether any facility was found.
func (m MatchResult) Matched() bool { return m.Facility != nil }

// AreaCodeCenter maps a 3-digit telephone area code to a city-center
// placement used as the last-resort coordinate source.
type AreaCodeCenter struct {
	AreaCode string  `json:"area_code"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Zip      string  `json:"zip"`
	Lon      float64 `json:"lon"`
	Lat      float64 `json:"lat"`
}

// Label synthesizes the display address for an area-code placement.
func (a AreaCodeCenter) Label() string {
	return fmt.Sprintf("City Center, %s, %s %s", a.City, a.State, a.Zip)
}

// EnrichedContact is a contact after matching and coordinate resolution,
// ready for emission.
type EnrichedContact struct {
	Contact ContactRecord `json:"contact"`

	// Enrichment from the matched facility (or defaults).
	Category     string `json:"category"`
	FacilityName string `json:"facility_name,omitempty"`
	LongName     string `json:"long_name,omitempty"`
	Suppliers    string `json:"suppliers,omitempty"`

	// Display address; differs from Contact.Address only for area-code
	// placements, where the street is intentionally blank.
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Label   string `json:"label,omitempty"`

	// Provenance.
	Tier  Tier            `json:"tier"`
	Coord *CoordinatePair `json:"coord,omitempty"`

	// Diagnostics accumulated along the way (missing fields, fallbacks).
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Resolved reports whether the contact carries a coordinate.
func (e EnrichedContact) Resolved() bool { return e.Coord != nil }

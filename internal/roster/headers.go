// Package roster loads the external datasets: the contact roster workbook,
// the facility feature collection, the authoritative coordinate table, and
// the area-code city-center table. All tolerance for spreadsheet header
// variants lives here, in one table-driven step; downstream packages only
// ever see strongly-typed records.
package roster

import "strings"

// Canonical field names produced by header resolution.
const (
	FieldRetailer    = "retailer"
	FieldContactName = "contact_name"
	FieldTitle       = "title"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldState       = "state"
	FieldZip         = "zip"
	FieldOfficePhone = "office_phone"
	FieldCellPhone   = "cell_phone"
	FieldEmail       = "email"
	FieldSuppliers   = "suppliers"
	FieldFullAddress = "full_address"
	FieldLat         = "lat"
	FieldLon         = "lon"
	FieldName        = "name"
	FieldLongName    = "long_name"
	FieldCategory    = "category"
	FieldSourceSheet = "source_sheet"
)

// contactAliases maps normalized contact-roster headers to canonical fields.
// "state.1" is the duplicate-column suffix pandas left in older exports; "s"
// is a historical truncation of the cell-phone header.
var contactAliases = map[string]string{
	"retailer":      FieldRetailer,
	"retailer name": FieldRetailer,

	"contact name": FieldContactName,
	"contact":      FieldContactName,
	"name":         FieldContactName,

	"title":         FieldTitle,
	"contact title": FieldTitle,

	"address":        FieldAddress,
	"street address": FieldAddress,

	"city":      FieldCity,
	"city/town": FieldCity,
	"town":      FieldCity,

	"state":          FieldState,
	"state.1":        FieldState,
	"st":             FieldState,
	"state/province": FieldState,

	"zip":         FieldZip,
	"zip code":    FieldZip,
	"zipcode":     FieldZip,
	"postal code": FieldZip,

	"office phone": FieldOfficePhone,
	"office":       FieldOfficePhone,
	"phone":        FieldOfficePhone,
	"telephone":    FieldOfficePhone,

	"cell phone": FieldCellPhone,
	"cell":       FieldCellPhone,
	"mobile":     FieldCellPhone,
	"s":          FieldCellPhone,

	"email":  FieldEmail,
	"e-mail": FieldEmail,

	"suppliers":     FieldSuppliers,
	"supplier":      FieldSuppliers,
	"supplier(s)":   FieldSuppliers,
	"suppliers(s)":  FieldSuppliers,
	"supplier list": FieldSuppliers,

	"full block address": FieldFullAddress,
	"full address":       FieldFullAddress,

	"lat":      FieldLat,
	"latitude": FieldLat,

	"lon":       FieldLon,
	"long":      FieldLon,
	"lng":       FieldLon,
	"longitude": FieldLon,
}

// facilityAliases maps normalized facility-sheet headers to canonical
// fields. Facility sheets use "Name" for the site, not the contact.
var facilityAliases = map[string]string{
	"long name":               FieldLongName,
	"business name or region": FieldLongName,

	"retailer":      FieldRetailer,
	"retailer name": FieldRetailer,

	"name":        FieldName,
	"branch name": FieldName,

	"address": FieldAddress,

	"city":      FieldCity,
	"city/town": FieldCity,
	"town":      FieldCity,

	"state":          FieldState,
	"state/province": FieldState,

	"zip":         FieldZip,
	"zip code":    FieldZip,
	"zipcode":     FieldZip,
	"postal code": FieldZip,

	"category": FieldCategory,

	"suppliers":     FieldSuppliers,
	"supplier":      FieldSuppliers,
	"supplier(s)":   FieldSuppliers,
	"suppliers(s)":  FieldSuppliers,
	"supplier list": FieldSuppliers,

	"source sheet": FieldSourceSheet,

	"lat":      FieldLat,
	"latitude": FieldLat,

	"lon":       FieldLon,
	"long":      FieldLon,
	"lng":       FieldLon,
	"longitude": FieldLon,
}

// Header maps canonical fields to column indices for one sheet.
type Header map[string]int

// normHeader canonicalizes a raw header cell: newlines and non-breaking
// spaces become spaces, whitespace collapses, and the result is lower-cased.
func normHeader(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\u00a0", " ").Replace(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// resolveHeaders builds a Header from a raw header row using the given alias
// table. Unknown columns are ignored; the first occurrence of a canonical
// field wins.
func resolveHeaders(cells []string, aliases map[string]string) Header {
	h := make(Header, len(cells))
	for i, cell := range cells {
		field, ok := aliases[normHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := h[field]; !seen {
			h[field] = i
		}
	}
	return h
}

// get returns the trimmed value of a canonical field in a row, or "".
func (h Header) get(row []string, field string) string {
	i, ok := h[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// has reports whether the header resolved the given canonical field.
func (h Header) has(field string) bool {
	_, ok := h[field]
	return ok
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Heartland Ag", "heartland ag"},
		{"state suffix stripped", "ABC Cooperative - IA", "abc cooperative"},
		{"coop synonym", "abc co-op", "abc cooperative"},
		{"ampersand", "Smith & Sons", "smith and sons"},
		{"incorporated synonym", "Acme Incorporated", "acme inc"},
		{"inc punctuation", "Acme, Inc.", "acme inc"},
		{"company synonym", "Jones Company", "jones co"},
		{"diacritics folded", "Agriserviços", "agriservicos"},
		{"whitespace collapsed", "  Two   Rivers  ", "two rivers"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retailer(tt.in))
		})
	}
}

func TestRetailerEquivalence(t *testing.T) {
	// Variant spellings of the same retailer must land on one key.
	require.Equal(t, Retailer("ABC Cooperative - IA"), Retailer("abc co-op"))
	require.Equal(t, Retailer("Smith & Sons, Inc."), Retailer("Smith and Sons Incorporated"))
}

func TestAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"street abbreviation", "123 Main St", "123 main street"},
		{"highway", "Hwy 30 West", "highway 30 west"},
		{"ordinal word", "401 First Ave", "401 1st avenue"},
		{"suite", "200 Oak Blvd Ste 4", "200 oak boulevard suite 4"},
		{"punctuation dropped", "1600 N. Elm Dr.", "1600 n elm drive"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.in))
		})
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"ABC Cooperative - IA", "123 Main St", "Des Moines", "ia", "50309.0",
		"Smith & Sons, Inc.", "Hwy 30 West", "",
	}
	for _, in := range inputs {
		assert.Equal(t, Retailer(in), Retailer(Retailer(in)), "Retailer(%q)", in)
		assert.Equal(t, Address(in), Address(Address(in)), "Address(%q)", in)
		assert.Equal(t, City(in), City(City(in)), "City(%q)", in)
		assert.Equal(t, State(in), State(State(in)), "State(%q)", in)
		assert.Equal(t, Zip(in), Zip(Zip(in)), "Zip(%q)", in)
	}
}

func TestZip(t *testing.T) {
	assert.Equal(t, "50309", Zip("50309.0"))
	assert.Equal(t, "02134", Zip(" 02134 "))
	assert.Equal(t, "50309", Zip("50309"))
}

func TestState(t *testing.T) {
	assert.Equal(t, "IA", State(" ia "))
	assert.Equal(t, "MO", State("mo"))
}

func TestSuppliers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma separated", "Bayer, Corteva", "Bayer, Corteva"},
		{"semicolons", "Bayer; Corteva;BASF", "Bayer, Corteva, BASF"},
		{"empties dropped", "Bayer,, ,Corteva", "Bayer, Corteva"},
		{"single", "Bayer", "Bayer"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suppliers(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	k := Key("ABC Co-op - IA", "123 Main St", "Des Moines", "ia", "50309.0")
	assert.Equal(t, "abc cooperative", k.Retailer)
	assert.Equal(t, "123 main street", k.Street)
	assert.Equal(t, "des moines", k.City)
	assert.Equal(t, "IA", k.State)
	assert.Equal(t, "50309", k.Zip)
	assert.Equal(t, "abc cooperative|123 main street|des moines|IA|50309", k.AddressKey())
	assert.Equal(t, "abc cooperative|IA", k.RetailerStateKey())
}

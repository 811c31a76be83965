// Package normalize canonicalizes free-text roster fields into stable
// comparison keys. Every normalizer is pure, total, and idempotent:
// re-normalizing a normalized value yields the same value, and arbitrary
// input degrades to best-effort cleaned text rather than an error.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/certis-maps/agroute-cli/internal/model"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	stateSuffixRe = regexp.MustCompile(`\s+-\s+[A-Za-z]{2}$`)
	trailingDotRe = regexp.MustCompile(`\.0+$`)
)

// asciiFolder strips combining marks so accented input compares equal to its
// plain-ASCII spelling.
var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// retailerSynonyms folds cooperative/incorporated/company spellings onto a
// single token each. Applied after punctuation stripping, so "co-op" arrives
// here as "coop".
var retailerSynonyms = map[string]string{
	"coop":         "cooperative",
	"cooperative":  "cooperative",
	"inc":          "inc",
	"incorporated": "inc",
	"company":      "co",
	"co":           "co",
}

// addressExpansions rewrites ordinal words and street-type abbreviations
// token-by-token.
var addressExpansions = map[string]string{
	"first":   "1st",
	"second":  "2nd",
	"third":   "3rd",
	"fourth":  "4th",
	"fifth":   "5th",
	"sixth":   "6th",
	"seventh": "7th",
	"eighth":  "8th",
	"ninth":   "9th",
	"tenth":   "10th",

	"hwy":  "highway",
	"rd":   "road",
	"st":   "street",
	"ave":  "avenue",
	"av":   "avenue",
	"blvd": "boulevard",
	"dr":   "drive",
	"ln":   "lane",
	"ct":   "court",
	"pkwy": "parkway",
	"cir":  "circle",
	"ste":  "suite",
}

// Whitespace collapses runs of whitespace to single spaces and trims.
func Whitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// fold applies ASCII folding, tolerating transformer errors by falling back
// to the input (normalizers are total).
func fold(s string) string {
	out, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return s
	}
	return out
}

// stripPunct drops everything except letters, digits, and spaces.
func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Retailer canonicalizes a retailer name for equality comparison: trailing
// " - XX" state suffixes are stripped, "&" becomes "and", punctuation is
// dropped, and cooperative/incorporated/company synonyms fold to one token.
func Retailer(s string) string {
	s = Whitespace(s)
	s = stateSuffixRe.ReplaceAllString(s, "")
	s = strings.ToLower(fold(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = stripPunct(s)
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if canon, ok := retailerSynonyms[tok]; ok {
			tokens[i] = canon
		}
	}
	return strings.Join(tokens, " ")
}

// Address canonicalizes a street address: lower-cased, punctuation stripped,
// ordinal words and street-type abbreviations expanded token-by-token.
func Address(s string) string {
	s = strings.ToLower(fold(Whitespace(s)))
	s = stripPunct(s)
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if exp, ok := addressExpansions[tok]; ok {
			tokens[i] = exp
		}
	}
	return strings.Join(tokens, " ")
}

// City canonicalizes a city name.
func City(s string) string {
	s = strings.ToLower(fold(Whitespace(s)))
	return Whitespace(stripPunct(s))
}

// State upper-cases and trims; 2-letter codes pass through unchanged.
func State(s string) string {
	return strings.ToUpper(Whitespace(s))
}

// Zip trims the zip as a string so leading zeros survive. A trailing ".0"
// left behind by spreadsheet float coercion is removed.
func Zip(s string) string {
	s = Whitespace(s)
	return trailingDotRe.ReplaceAllString(s, "")
}

// Suppliers splits on "," or ";", trims each part, drops empties, and
// rejoins with ", " preserving order. No dedup at this stage.
func Suppliers(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Whitespace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// Key derives the normalized identity tuple for a contact or facility.
func Key(retailer, street, city, state, zip string) model.NormalizedKey {
	return model.NormalizedKey{
		Retailer: Retailer(retailer),
		Street:   Address(street),
		City:     City(city),
		State:    State(state),
		Zip:      Zip(zip),
	}
}

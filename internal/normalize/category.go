package normalize

import (
	"strings"

	"github.com/certis-maps/agroute-cli/internal/model"
)

// blankCategoryValues are spreadsheet artifacts that mean "no category".
var blankCategoryValues = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
}

// Category maps free-text category values onto the canonical set by
// substring, in fixed priority order. Blank and null-like values return ""
// so the caller can apply its own default (Agronomy for facilities).
// Unrecognized text keeps its first comma-delimited segment verbatim.
func Category(s string) string {
	display := Whitespace(s)
	v := strings.ToLower(display)
	if blankCategoryValues[v] {
		return ""
	}

	switch {
	case strings.Contains(v, "corporate hq"), strings.Contains(v, "hq"):
		return model.CategoryCorporateHQ
	case strings.Contains(v, "distribution"):
		return model.CategoryDistribution
	case strings.Contains(v, "c-store"), strings.Contains(v, "service"), strings.Contains(v, "energy"):
		return model.CategoryCStore
	case strings.Contains(v, "grain"), strings.Contains(v, "feed"):
		return model.CategoryGrainFeed
	case strings.Contains(v, "agronomy"):
		return model.CategoryAgronomy
	case strings.Contains(v, "kingpin"):
		return model.CategoryKingpin
	}

	if i := strings.Index(display, ","); i >= 0 {
		return Whitespace(display[:i])
	}
	return display
}

// CategoryOrDefault applies Category and substitutes Agronomy for blanks.
func CategoryOrDefault(s string) string {
	if c := Category(s); c != "" {
		return c
	}
	return model.CategoryAgronomy
}

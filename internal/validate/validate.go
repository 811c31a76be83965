// Package validate is the final gate on resolved coordinates, independent of
// how they were produced.
package validate

import (
	"github.com/certis-maps/agroute-cli/internal/model"
)

// Verdict classifies a coordinate at the output gate.
type Verdict int

// Verdicts.
const (
	// OK passes all checks.
	OK Verdict = iota
	// Invalid is missing, non-finite, or outside geographic bounds.
	Invalid
	// OutOfBand is geographically valid but outside the configured sanity
	// band, usually a geocoder mis-resolution. Counted separately.
	OutOfBand
)

// Band is an optional lon/lat sanity window applied after the hard bounds
// check.
type Band struct {
	MinLon float64 `yaml:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `yaml:"max_lon" mapstructure:"max_lon"`
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
}

// ConusBand approximates the continental-US bounding box, catching addresses
// the geocoder resolved off-continent.
var ConusBand = Band{MinLon: -125.0, MaxLon: -66.9, MinLat: 24.4, MaxLat: 49.4}

// contains reports whether the pair falls inside the band.
func (b Band) contains(p model.CoordinatePair) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Validator applies the hard bounds check and, when configured, a narrow
// sanity band.
type Validator struct {
	band *Band
}

// NewValidator creates a Validator. A nil band disables the narrow check.
func NewValidator(band *Band) *Validator {
	return &Validator{band: band}
}

// Check classifies a coordinate. A nil pair is Invalid: a missing coordinate
// must never reach output.
func (v *Validator) Check(p *model.CoordinatePair) Verdict {
	if p == nil {
		return Invalid
	}
	if !Bounds(p.Lon, p.Lat) {
		return Invalid
	}
	if v.band != nil && !v.band.contains(*p) {
		return OutOfBand
	}
	return OK
}

// Bounds reports whether both components are finite and inside valid
// geographic ranges: longitude in [-180,180], latitude in [-90,90].
func Bounds(lon, lat float64) bool {
	p := model.CoordinatePair{Lon: lon, Lat: lat}
	if !p.Finite() {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

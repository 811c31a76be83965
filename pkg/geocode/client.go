// Package geocode provides forward geocoding via the Mapbox Places API with
// a persistent query cache.
package geocode

import (
	"context"

	"github.com/rotisserie/eris"
)

// Result holds the geocoding output for one query.
type Result struct {
	Longitude float64
	Latitude  float64
	Matched   bool
}

// Client resolves a free-text address query to a best-match coordinate.
// Implementations make at most one attempt per call; there is no retry.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// ErrUnauthorized is returned when the remote service rejects the access
// credential. Callers treat it as fatal for remaining remote attempts.
var ErrUnauthorized = eris.New("geocode: access token rejected")

package resolve

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
	"github.com/certis-maps/agroute-cli/pkg/geocode"
)

// Outcome describes how coordinate resolution ended for one contact.
type Outcome string

// Resolution outcomes.
const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeUnresolved Outcome = "unresolved"
	// OutcomeDropped applies the "no address and no phone" rule: the contact
	// cannot be placed and is removed from output, counted.
	OutcomeDropped Outcome = "dropped"
)

// Resolver walks the coordinate fallback chain for each contact. It is used
// by a single goroutine; the only blocking step is the remote geocode call.
type Resolver struct {
	coords    *CoordIndex
	areaCodes map[string]model.AreaCodeCenter
	client    geocode.Client
	cache     *geocode.Cache
	stats     *model.RunStats

	remoteEnabled bool
	// remoteDown trips on an authentication rejection so a bad credential is
	// not burned against every remaining row. Non-remote paths keep working.
	remoteDown bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCoordIndex attaches the authoritative coordinate table index.
func WithCoordIndex(ix *CoordIndex) Option {
	return func(r *Resolver) { r.coords = ix }
}

// WithAreaCodes attaches the area-code city-center table.
func WithAreaCodes(centers map[string]model.AreaCodeCenter) Option {
	return func(r *Resolver) { r.areaCodes = centers }
}

// WithRemote enables remote geocoding through the given client and cache.
func WithRemote(client geocode.Client, cache *geocode.Cache) Option {
	return func(r *Resolver) {
		r.client = client
		r.cache = cache
		r.remoteEnabled = client != nil
	}
}

// NewResolver creates a Resolver writing counters into stats.
func NewResolver(stats *model.RunStats, opts ...Option) *Resolver {
	if stats == nil {
		stats = model.NewRunStats("")
	}
	r := &Resolver{stats: stats}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RemoteDown reports whether remote geocoding was disabled mid-run by an
// authentication rejection.
func (r *Resolver) RemoteDown() bool { return r.remoteDown }

// Resolve tries each coordinate source in order, first success wins:
// roster-carried coordinates, authoritative table, matched facility, cached
// or remote geocode, area-code center. The final validity gate is applied by
// the caller, after this chain.
func (r *Resolver) Resolve(ctx context.Context, e *model.EnrichedContact, key model.NormalizedKey, m model.MatchResult) Outcome {
	contact := e.Contact

	if contact.HasCoords {
		e.Coord = &model.CoordinatePair{Lon: contact.Lon, Lat: contact.Lat, Source: model.SourceRoster}
		return OutcomeResolved
	}

	if r.coords != nil {
		if pair, ok := r.coords.Lookup(key); ok {
			e.Coord = &pair
			return OutcomeResolved
		}
	}

	if m.Matched() {
		e.Coord = &model.CoordinatePair{Lon: m.Facility.Lon, Lat: m.Facility.Lat, Source: model.SourceFacility}
		return OutcomeResolved
	}

	if r.remoteEnabled && !r.remoteDown && usableAddress(contact) {
		if pair, ok := r.remoteGeocode(ctx, contact); ok {
			e.Coord = &pair
			return OutcomeResolved
		}
	}

	if !hasAnyAddress(contact) {
		return r.areaCodeFallback(e, contact)
	}

	return OutcomeUnresolved
}

// usableAddress reports whether the contact has enough address content for a
// remote geocode: street+city+state, or a free-form full address.
func usableAddress(c model.ContactRecord) bool {
	if c.FullAddress != "" {
		return true
	}
	return c.Address != "" && c.City != "" && c.State != ""
}

// hasAnyAddress reports whether any address content exists at all. Contacts
// with none fall to the phone-derived placement.
func hasAnyAddress(c model.ContactRecord) bool {
	return c.Address != "" || c.City != "" || c.FullAddress != ""
}

// remoteGeocode consults the cache, then issues at most one network query.
// Both successes and clean no-result responses are cached; transport errors
// are not, so a transient failure can be retried on a later run.
func (r *Resolver) remoteGeocode(ctx context.Context, c model.ContactRecord) (model.CoordinatePair, bool) {
	query := c.FullAddress
	if query == "" {
		query = geocode.QueryString(c.Address, c.City, c.State, c.Zip)
	}

	if entry, ok := r.cache.Lookup(query); ok {
		if !entry.Matched {
			return model.CoordinatePair{}, false
		}
		return model.CoordinatePair{Lon: entry.Longitude, Lat: entry.Latitude, Source: model.SourceGeocode}, true
	}

	r.stats.GeocodeCalls++
	result, err := r.client.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, geocode.ErrUnauthorized) {
			r.remoteDown = true
			zap.L().Error("remote geocoding disabled for rest of run: credential rejected", zap.Error(err))
			return model.CoordinatePair{}, false
		}
		r.stats.GeocodeFailed++
		r.stats.AddFailureSample(query)
		zap.L().Warn("geocode failed", zap.String("query", query), zap.Error(err))
		return model.CoordinatePair{}, false
	}

	if !result.Matched {
		r.cache.Store(query, geocode.Entry{Matched: false})
		r.stats.GeocodeFailed++
		r.stats.AddFailureSample(query)
		return model.CoordinatePair{}, false
	}

	r.cache.Store(query, geocode.Entry{Longitude: result.Longitude, Latitude: result.Latitude, Matched: true})
	return model.CoordinatePair{Lon: result.Longitude, Lat: result.Latitude, Source: model.SourceGeocode}, true
}

// areaCodeFallback places an address-less contact at its phone area code's
// city center. Office phone is preferred over cell. With no parseable phone
// or no table entry, the contact is dropped ("no address and no phone").
func (r *Resolver) areaCodeFallback(e *model.EnrichedContact, c model.ContactRecord) Outcome {
	ac := normalize.AreaCode(c.OfficePhone)
	if ac == "" {
		ac = normalize.AreaCode(c.CellPhone)
	}
	if ac == "" {
		return OutcomeDropped
	}

	center, ok := r.areaCodes[ac]
	if !ok {
		return OutcomeDropped
	}

	// The street stays intentionally blank: the placement is a city center,
	// not a street address.
	e.Address = ""
	e.City = center.City
	e.State = center.State
	e.Zip = center.Zip
	e.Label = center.Label()
	e.Coord = &model.CoordinatePair{Lon: center.Lon, Lat: center.Lat, Source: model.SourceAreaCode}
	e.Diagnostics = append(e.Diagnostics, "placed at area code "+ac+" city center")
	return OutcomeResolved
}

// Package pipeline orchestrates one reconciliation run: normalize, match,
// resolve, validate, emit. Processing is strictly sequential over contacts;
// the only blocking step is the remote geocode call inside the resolver.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/emit"
	"github.com/certis-maps/agroute-cli/internal/match"
	"github.com/certis-maps/agroute-cli/internal/model"
	"github.com/certis-maps/agroute-cli/internal/normalize"
	"github.com/certis-maps/agroute-cli/internal/resolve"
	"github.com/certis-maps/agroute-cli/internal/validate"
	"github.com/certis-maps/agroute-cli/pkg/geocode"
)

// Inputs holds the loaded datasets for one run. Facilities and coordinate
// rows are indexed once and read-only afterwards.
type Inputs struct {
	Contacts   []model.ContactRecord
	Facilities []model.FacilityRecord
	CoordRows  []model.CoordRow
	AreaCodes  map[string]model.AreaCodeCenter
}

// Options configures a run.
type Options struct {
	// Band, when non-nil, applies the narrow sanity window after the hard
	// bounds check.
	Band *validate.Band

	// Client enables remote geocoding when non-nil. Cache must be set
	// whenever Client is.
	Client geocode.Client
	Cache  *geocode.Cache
}

// Result is everything a run produced.
type Result struct {
	Resolved   []model.EnrichedContact
	Unresolved []model.EnrichedContact
	Features   []*geojson.Feature
	Stats      *model.RunStats
}

// minimum identifying fields checked for the kept-with-coordinates rule.
func missingMinimumFields(c model.ContactRecord) bool {
	return c.Retailer == "" || c.ContactName == "" || c.Address == "" ||
		c.City == "" || c.State == "" || c.Zip == ""
}

// Run executes the reconciliation over all contacts.
func Run(ctx context.Context, in Inputs, opts Options) (*Result, error) {
	stats := model.NewRunStats(uuid.New().String())
	stats.TotalRows = len(in.Contacts)

	index := match.NewIndex(in.Facilities)

	resolverOpts := []resolve.Option{
		resolve.WithAreaCodes(in.AreaCodes),
	}
	if len(in.CoordRows) > 0 {
		resolverOpts = append(resolverOpts, resolve.WithCoordIndex(resolve.NewCoordIndex(in.CoordRows)))
	}
	if opts.Client != nil {
		resolverOpts = append(resolverOpts, resolve.WithRemote(opts.Client, opts.Cache))
	}
	resolver := resolve.NewResolver(stats, resolverOpts...)

	validator := validate.NewValidator(opts.Band)

	res := &Result{Stats: stats}
	for _, contact := range in.Contacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if contact.Blank() {
			stats.BlankDropped++
			continue
		}

		e := model.EnrichedContact{
			Contact: contact,
			Address: contact.Address,
			City:    contact.City,
			State:   contact.State,
			Zip:     contact.Zip,
		}
		if missingMinimumFields(contact) && contact.HasCoords {
			stats.MissingFieldsKept++
			e.Diagnostics = append(e.Diagnostics, "missing identifying fields, kept for existing coordinates")
		}

		key := normalize.Key(contact.Retailer, contact.Address, contact.City, contact.State, contact.Zip)
		m := index.Resolve(key)
		stats.MatchesByTier[m.Tier]++
		match.Enrich(&e, m)

		switch resolver.Resolve(ctx, &e, key, m) {
		case resolve.OutcomeDropped:
			stats.NoAddressNoPhoneDropped++
			zap.L().Debug("contact dropped: no address and no phone",
				zap.String("retailer", contact.Retailer),
				zap.String("contact", contact.ContactName),
				zap.Int("row", contact.Row),
			)

		case resolve.OutcomeUnresolved:
			stats.Unresolved++
			res.Unresolved = append(res.Unresolved, e)

		case resolve.OutcomeResolved:
			switch validator.Check(e.Coord) {
			case validate.OK:
				stats.Resolved++
				stats.CoordsBySource[e.Coord.Source]++
				stats.ValidFeatures++
				res.Resolved = append(res.Resolved, e)
				res.Features = append(res.Features, emit.Feature(e))
			case validate.OutOfBand:
				stats.OutOfBandDropped++
				stats.InvalidCoordDropped++
				zap.L().Warn("coordinate outside sanity band",
					zap.Float64("lon", e.Coord.Lon),
					zap.Float64("lat", e.Coord.Lat),
					zap.String("source", string(e.Coord.Source)),
					zap.Int("row", contact.Row),
				)
			default:
				stats.InvalidCoordDropped++
				zap.L().Warn("coordinate failed validity bounds",
					zap.String("source", string(e.Coord.Source)),
					zap.Int("row", contact.Row),
				)
			}
		}
	}

	if opts.Cache != nil {
		stats.CacheHits = opts.Cache.Hits()
		stats.CacheMisses = opts.Cache.Misses()
	}

	stats.FinishedAt = time.Now().UTC()

	if !stats.Reconciles() {
		zap.L().Error("run counters do not reconcile",
			zap.Int("total", stats.TotalRows),
			zap.Int("resolved", stats.Resolved),
			zap.Int("unresolved", stats.Unresolved),
			zap.Int("blank", stats.BlankDropped),
			zap.Int("no_address_no_phone", stats.NoAddressNoPhoneDropped),
			zap.Int("invalid", stats.InvalidCoordDropped),
		)
	}

	return res, nil
}

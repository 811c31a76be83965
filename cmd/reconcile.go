package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/certis-maps/agroute-cli/internal/emit"
	"github.com/certis-maps/agroute-cli/internal/pipeline"
	"github.com/certis-maps/agroute-cli/internal/roster"
	"github.com/certis-maps/agroute-cli/internal/validate"
	"github.com/certis-maps/agroute-cli/pkg/geocode"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the contact roster against the facility dataset",
	Long: `Reconcile the kingpin contact roster against the geocoded facility
dataset, resolve coordinates for every contact, and write the enriched
GeoJSON output plus resolved/unresolved audit workbooks and a run report.

Remote geocoding is off unless geocode.enabled is set; with it on, a
Mapbox token is required (config, MAPBOX_ACCESS_TOKEN and friends, or
token.txt/token.json in the data directory).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "reconcile"))

		in, err := loadInputs(ctx)
		if err != nil {
			return err
		}
		log.Info("inputs loaded",
			zap.Int("contacts", len(in.Contacts)),
			zap.Int("facilities", len(in.Facilities)),
			zap.Int("coord_rows", len(in.CoordRows)),
			zap.Int("area_codes", len(in.AreaCodes)),
		)

		opts := pipeline.Options{}
		if cfg.Validate.ConusBand {
			band := validate.ConusBand
			opts.Band = &band
		}

		var cache *geocode.Cache
		if cfg.Geocode.Enabled {
			token := cfg.Geocode.Token
			if token == "" {
				token, err = geocode.ResolveToken(cfg.Geocode.TokenDir)
				if err != nil {
					return eris.Wrap(err, "reconcile: remote geocoding enabled but no token found")
				}
			}

			store, err := openCacheStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			cache, err = geocode.NewCache(ctx, store)
			if err != nil {
				return eris.Wrap(err, "reconcile: load geocode cache")
			}
			if cfg.Cache.ImportJSON != "" {
				n, err := cache.ImportJSON(cfg.Cache.ImportJSON)
				if err != nil {
					return eris.Wrap(err, "reconcile: import legacy cache")
				}
				log.Info("legacy cache imported", zap.Int("entries", n))
			}

			opts.Client = geocode.NewMapbox(token,
				geocode.WithRateDelay(time.Duration(cfg.Geocode.RateDelayMS)*time.Millisecond),
				geocode.WithResultLimit(cfg.Geocode.ResultLimit),
				geocode.WithCountry(cfg.Geocode.Country),
			)
			opts.Cache = cache
		}

		res, err := pipeline.Run(ctx, in, opts)
		if err != nil {
			return eris.Wrap(err, "reconcile: run")
		}

		if cache != nil {
			if err := cache.Flush(ctx); err != nil {
				return eris.Wrap(err, "reconcile: flush geocode cache")
			}
		}

		if err := emit.WriteGeoJSON(cfg.Outputs.GeoJSON, res.Features); err != nil {
			return err
		}
		if err := emit.WriteAudit(cfg.Outputs.ResolvedAudit, "Resolved", res.Resolved); err != nil {
			return err
		}
		if err := emit.WriteAudit(cfg.Outputs.UnresolvedAudit, "Unresolved", res.Unresolved); err != nil {
			return err
		}
		if err := emit.WriteReport(cfg.Outputs.Report, res.Stats); err != nil {
			return err
		}

		log.Info("reconcile complete",
			zap.String("run_id", res.Stats.RunID),
			zap.Int("total", res.Stats.TotalRows),
			zap.Int("resolved", res.Stats.Resolved),
			zap.Int("unresolved", res.Stats.Unresolved),
			zap.Int("features", res.Stats.ValidFeatures),
		)
		return nil
	},
}

// loadInputs loads the four datasets concurrently. The coordinate table and
// area-code table are optional; the roster and facilities are not.
func loadInputs(ctx context.Context) (pipeline.Inputs, error) {
	var in pipeline.Inputs

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		contacts, err := roster.LoadContacts(cfg.Inputs.Contacts)
		if err != nil {
			return err
		}
		in.Contacts = contacts
		return nil
	})
	g.Go(func() error {
		facilities, err := roster.LoadFacilities(cfg.Inputs.Facilities)
		if err != nil {
			return err
		}
		in.Facilities = facilities
		return nil
	})
	g.Go(func() error {
		if cfg.Inputs.CoordTable == "" {
			return nil
		}
		rows, err := roster.LoadCoordTable(cfg.Inputs.CoordTable)
		if err != nil {
			return err
		}
		in.CoordRows = rows
		return nil
	})
	g.Go(func() error {
		if cfg.Inputs.AreaCodes == "" {
			return nil
		}
		centers, err := roster.LoadAreaCodes(cfg.Inputs.AreaCodes)
		if err != nil {
			return err
		}
		in.AreaCodes = centers
		return nil
	})

	if err := g.Wait(); err != nil {
		return pipeline.Inputs{}, eris.Wrap(err, "reconcile: load inputs")
	}
	return in, nil
}

// openCacheStore opens the configured geocode cache backend.
func openCacheStore(ctx context.Context) (geocode.CacheStore, error) {
	switch cfg.Cache.Driver {
	case "postgres":
		store, err := geocode.NewPostgresCacheStore(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "reconcile: open postgres cache")
		}
		return store, nil
	case "sqlite", "":
		store, err := geocode.NewSQLiteCacheStore(cfg.Cache.Path)
		if err != nil {
			return nil, eris.Wrap(err, "reconcile: open sqlite cache")
		}
		return store, nil
	default:
		return nil, eris.Errorf("reconcile: unknown cache driver %q", cfg.Cache.Driver)
	}
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

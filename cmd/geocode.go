package main

import (
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/roster"
	"github.com/certis-maps/agroute-cli/pkg/geocode"
)

var (
	geocodeIn  string
	geocodeOut string
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Batch-geocode a facility workbook",
	Long: `Batch-geocode every row of a workbook that lacks coordinates and write
a copy with Latitude/Longitude columns filled in. Results are served from
the persistent geocode cache first; only cache misses hit the remote
service, rate limited.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if geocodeIn == "" {
			return eris.New("geocode: --in is required")
		}

		log := zap.L().With(zap.String("command", "geocode"))

		token := cfg.Geocode.Token
		if token == "" {
			var err error
			token, err = geocode.ResolveToken(cfg.Geocode.TokenDir)
			if err != nil {
				return eris.Wrap(err, "geocode: no access token found")
			}
		}

		store, err := openCacheStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		cache, err := geocode.NewCache(ctx, store)
		if err != nil {
			return eris.Wrap(err, "geocode: load cache")
		}

		client := geocode.NewMapbox(token,
			geocode.WithRateDelay(time.Duration(cfg.Geocode.RateDelayMS)*time.Millisecond),
			geocode.WithResultLimit(cfg.Geocode.ResultLimit),
			geocode.WithCountry(cfg.Geocode.Country),
		)

		contacts, err := roster.LoadContacts(geocodeIn)
		if err != nil {
			return err
		}

		out := xlsx.NewFile()
		sheet, err := out.AddSheet("Geocoded")
		if err != nil {
			return eris.Wrap(err, "geocode: add sheet")
		}
		header := sheet.AddRow()
		for _, col := range []string{
			"Retailer", "Contact Name", "Address", "City", "State", "Zip",
			"Latitude", "Longitude", "Geocoded",
		} {
			header.AddCell().SetString(col)
		}

		filled, missed := 0, 0
		for _, c := range contacts {
			if c.Blank() {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			lat, lon := c.Lat, c.Lon
			hit := c.HasCoords
			if !hit {
				query := c.FullAddress
				if query == "" {
					query = geocode.QueryString(c.Address, c.City, c.State, c.Zip)
				}
				if entry, ok := cache.Lookup(query); ok {
					lat, lon, hit = entry.Latitude, entry.Longitude, entry.Matched
				} else {
					res, err := client.Geocode(ctx, query)
					if err != nil {
						if eris.Is(err, geocode.ErrUnauthorized) {
							return eris.Wrap(err, "geocode")
						}
						log.Warn("geocode failed", zap.String("query", query), zap.Error(err))
						missed++
						continue
					}
					cache.Store(query, geocode.Entry{
						Longitude: res.Longitude,
						Latitude:  res.Latitude,
						Matched:   res.Matched,
					})
					lat, lon, hit = res.Latitude, res.Longitude, res.Matched
				}
			}
			if hit {
				filled++
			} else {
				missed++
			}

			row := sheet.AddRow()
			latStr, lonStr := "", ""
			if hit {
				latStr = strconv.FormatFloat(lat, 'f', -1, 64)
				lonStr = strconv.FormatFloat(lon, 'f', -1, 64)
			}
			for _, v := range []string{
				c.Retailer, c.ContactName, c.Address, c.City, c.State, c.Zip,
				latStr, lonStr, strconv.FormatBool(hit),
			} {
				row.AddCell().SetString(v)
			}
		}

		if err := cache.Flush(ctx); err != nil {
			return eris.Wrap(err, "geocode: flush cache")
		}
		if err := out.Save(geocodeOut); err != nil {
			return eris.Wrapf(err, "geocode: save %s", geocodeOut)
		}

		log.Info("batch geocode complete",
			zap.String("output", geocodeOut),
			zap.Int("filled", filled),
			zap.Int("missed", missed),
			zap.Int("cache_hits", cache.Hits()),
			zap.Int("cache_misses", cache.Misses()),
		)
		return nil
	},
}

func init() {
	geocodeCmd.Flags().StringVar(&geocodeIn, "in", "", "source workbook")
	geocodeCmd.Flags().StringVar(&geocodeOut, "out", "data/geocoded.xlsx", "output workbook")
	rootCmd.AddCommand(geocodeCmd)
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/emit"
	"github.com/certis-maps/agroute-cli/internal/validate"
)

var (
	convertIn  string
	convertOut string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a coordinate spreadsheet to GeoJSON",
	Long: `Convert a spreadsheet with Latitude/Longitude columns into a GeoJSON
point feature collection. All other columns become feature properties.
Rows with unparseable or out-of-range coordinates are skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if convertIn == "" {
			return eris.New("convert: --in is required")
		}

		var band *validate.Band
		if cfg.Validate.ConusBand {
			b := validate.ConusBand
			band = &b
		}

		written, skipped, err := emit.ConvertWorkbook(convertIn, convertOut, band)
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		zap.L().Info("workbook converted",
			zap.String("source", convertIn),
			zap.String("output", convertOut),
			zap.Int("features", written),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertIn, "in", "", "source workbook")
	convertCmd.Flags().StringVar(&convertOut, "out", "data/converted.geojson", "output GeoJSON file")
	rootCmd.AddCommand(convertCmd)
}

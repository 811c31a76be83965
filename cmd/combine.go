package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/certis-maps/agroute-cli/internal/roster"
)

var (
	combineIn  string
	combineOut string
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Combine per-state facility sheets into one deduplicated sheet",
	Long: `Combine the per-state sheets of a facility workbook into a single
deduplicated Combined sheet, sorted by state, retailer, city and name.
Rows with neither a facility name nor an address are dropped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		src := combineIn
		if src == "" {
			src = cfg.Inputs.Contacts
		}

		n, err := roster.CombineSheets(src, combineOut)
		if err != nil {
			return eris.Wrap(err, "combine")
		}

		zap.L().Info("sheets combined",
			zap.String("source", src),
			zap.String("output", combineOut),
			zap.Int("rows", n),
		)
		return nil
	},
}

func init() {
	combineCmd.Flags().StringVar(&combineIn, "in", "", "source workbook (defaults to inputs.contacts)")
	combineCmd.Flags().StringVar(&combineOut, "out", "data/combined.xlsx", "output workbook")
	rootCmd.AddCommand(combineCmd)
}

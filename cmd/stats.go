package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// statsCmd computes summary statistics for one variable.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute mean, median, min and max for one variable",
	Long: `Run a single-year query and summarize one variable's distribution across
the returned entities: mean, median, minimum and maximum with the entities
that hold the extremes. Rows whose value is not numerically parseable are
skipped.

Examples:
  # Income spread across states
  census stats --level state --variable median_household_income

  # Poverty rate across Oregon counties
  census stats --level county --state Oregon --variable poverty_percentage --metrics poverty_percentage`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCensusStats(rootCtx, cfg, transport, resolveInputFromViper(), viper.GetString("variable")); err != nil {
			contract.LogFatal("Cannot compute statistics", err)
		}
	},
}

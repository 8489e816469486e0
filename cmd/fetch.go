package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// fetchCmd performs a single-year demographic query.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one year of ACS data for a geography level",
	Long: `Resolve plain geography and variable names into a single-year ACS query
and print the resulting rows.

Variables are requested by friendly name (total_population, median_household_income)
and derived metrics (unemployment_percentage, poverty_percentage) are computed
per row from their underlying variables.

Examples:
  # Population of every state
  census fetch --level state --variables total_population

  # Counties in California with income and a derived metric
  census fetch --level county --state California --variables median_household_income --metrics poverty_percentage

  # One ZIP Code Tabulation Area
  census fetch --level "zip code tabulation area" --zcta 97201 --variables total_population

  # Export to CSV
  census fetch --level state --variables total_population --output csv --output-file states.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCensusFetch(rootCtx, cfg, transport, resolveInputFromViper()); err != nil {
			contract.LogFatal("Cannot run fetch", err)
		}
	},
}

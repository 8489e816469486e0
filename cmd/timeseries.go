package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// timeseriesCmd aggregates one variable across a year range.
var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Track how a variable changes across ACS years for each entity",
	Long: `Fetch the same query for every year in a range and line the values up
per entity, computing trend metrics for each series:
- Absolute and percent change between first and last usable values
- Compound annual growth rate (CAGR)
- Maximum and minimum observations
- Top movers by absolute and percent change

Years that fail to fetch are skipped and reported; the aggregate is best
effort across available years. Results are cached so repeated queries over
the same range are served from memory or the durable cache backend.

Examples:
  # State population trend since 2015
  census timeseries --level state --variables total_population --start-year 2015 --end-year 2022

  # Unemployment trend for California counties
  census timeseries --level county --state California --metrics unemployment_percentage --primary unemployment_percentage

  # Full supported range, JSON output
  census timeseries --level state --variables median_household_income --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		in := core.TimeSeriesInput{
			ResolveInput:    resolveInputFromViper(),
			StartYear:       viper.GetInt("start-year"),
			EndYear:         viper.GetInt("end-year"),
			PrimaryVariable: viper.GetString("primary"),
		}
		if err := core.ExecuteCensusTimeseries(rootCtx, cfg, transport, resultCache, cacheManager, in); err != nil {
			contract.LogFatal("Cannot run timeseries query", err)
		}
	},
}

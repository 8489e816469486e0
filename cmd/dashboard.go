package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// dashboardCmd assembles a dashboard payload from a single-year query.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Build a dashboard payload (rows, statistics, insights, charts) as JSON",
	Long: `Run a single-year query and assemble the rows into a dashboard payload:
summary statistics per variable, a top-entities bar chart, generated insight
strings and presentation metadata.

The payload is printed as JSON and can be refined later with 'census refine'
without refetching any data.

Examples:
  # State-level dashboard for income
  census dashboard --level state --variables median_household_income

  # County dashboard with a derived metric, written to a file
  census dashboard --level county --state Oregon --metrics unemployment_percentage --output-file dash.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCensusDashboard(rootCtx, cfg, transport, resolveInputFromViper()); err != nil {
			contract.LogFatal("Cannot build dashboard", err)
		}
	},
}

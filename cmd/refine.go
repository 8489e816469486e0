package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// refineSetup loads minimal configuration needed for refinement.
// Refinement is purely in-memory, so no transport or stores are initialized.
func refineSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessAndValidate(cfg, input)
}

// readPayload loads the dashboard payload from a file or stdin.
func readPayload(path string) (schema.DashboardPayload, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard payload: %w", err)
	}

	var payload schema.DashboardPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("invalid dashboard payload: %w", err)
	}
	return payload, nil
}

// refineCmd filters, sorts and slices an existing dashboard payload.
var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Filter, sort, limit or year-slice a dashboard payload without refetching",
	Long: `Apply in-memory transformations to a dashboard payload produced by
'census dashboard' (or the MCP get_demographic_data tool). No network calls
are made: the payload's rows are filtered, sorted, limited or sliced to one
year, and metadata records what was applied.

Filter conditions are a JSON array of objects with field, operator and value.
Operators: equals, not_equals, contains (case-insensitive), gt, gte, lt, lte.

Examples:
  # Keep counties whose name contains "Lake", sorted by population
  census dashboard --level county --state Oregon --variables total_population --output-file dash.json
  census refine --input-file dash.json --filters '[{"field":"NAME","operator":"contains","value":"Lake"}]' --sort-by B01003_001E --sort-direction desc

  # Top 10 after sorting, from stdin
  cat dash.json | census refine --sort-by B01003_001E --sort-direction desc --refine-limit 10`,
	Args:    cobra.NoArgs,
	PreRunE: refineSetup,
	Run: func(_ *cobra.Command, _ []string) {
		payload, err := readPayload(viper.GetString("input-file"))
		if err != nil {
			contract.LogFatal("Cannot load payload", err)
		}

		opts := core.RefineOptions{
			Limit:       viper.GetInt("refine-limit"),
			CurrentYear: viper.GetInt("refine-year"),
		}
		if filtersRaw := viper.GetString("filters"); filtersRaw != "" {
			if err := json.Unmarshal([]byte(filtersRaw), &opts.Filters); err != nil {
				contract.LogFatal("Invalid filters", err)
			}
		}
		if sortField := viper.GetString("sort-by"); sortField != "" {
			opts.Sort = &core.SortSpec{
				Field:     sortField,
				Direction: viper.GetString("sort-direction"),
			}
		}

		refined, err := core.RefineDashboard(payload, opts)
		if err != nil {
			contract.LogFatal("Cannot refine payload", err)
		}
		if err := internal.PrintJSONPayload(refined, cfg); err != nil {
			contract.LogFatal("Cannot write refined payload", err)
		}
	},
}

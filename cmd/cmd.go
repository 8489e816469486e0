// Package cmd defines the command-line interface for census.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(querylogCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the querylog subcommands to the parent querylog command
	querylogCmd.AddCommand(querylogClearCmd)
	querylogCmd.AddCommand(querylogStatusCmd)
	querylogCmd.AddCommand(querylogExportCmd)
	querylogCmd.AddCommand(querylogMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("api-key", "", "Census API key (or set CENSUS_API_KEY)")
	rootCmd.PersistentFlags().String("base-url", "", "Census API base URL override")
	rootCmd.PersistentFlags().String("dataset", "", "Census dataset path (defaults to acs/acs5)")
	rootCmd.PersistentFlags().String("level", "", "Geography level: us, state, county, place, zip code tabulation area")
	rootCmd.PersistentFlags().String("variables", "", "Comma-separated variable names (e.g. total_population,median_household_income)")
	rootCmd.PersistentFlags().String("metrics", "", "Comma-separated derived metric keys (e.g. unemployment_percentage)")
	rootCmd.PersistentFlags().String("state", "", "State name to scope the query (e.g. California)")
	rootCmd.PersistentFlags().String("county", "", "County name to scope the query")
	rootCmd.PersistentFlags().String("place", "", "Place name to scope the query")
	rootCmd.PersistentFlags().String("zcta", "", "Specific ZIP Code Tabulation Area to query")
	rootCmd.PersistentFlags().Int("year", 0, "ACS survey year for single-year queries")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent per-year fetch workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Durable cache entry lifetime as a Go duration (0 disables expiry)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("querylog-backend", "", "Query logging backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("querylog-db-connect", "", "Database connection string for query logging (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of timeseriesCmd to Viper
	timeseriesCmd.Flags().Int("start-year", 0, "First year of the range (inclusive)")
	timeseriesCmd.Flags().Int("end-year", 0, "Last year of the range (inclusive)")
	timeseriesCmd.Flags().String("primary", "", "Variable or metric whose values form the series")
	if err := viper.BindPFlags(timeseriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeseries flags", err)
	}

	// Bind all flags of statsCmd to Viper
	statsCmd.Flags().String("variable", "", "Variable name or code to summarize")
	if err := viper.BindPFlags(statsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding stats flags", err)
	}

	// Bind all flags of refineCmd to Viper
	refineCmd.Flags().String("input-file", "", "Path to a dashboard payload JSON file (defaults to stdin)")
	refineCmd.Flags().String("filters", "", "JSON array of filter conditions")
	refineCmd.Flags().String("sort-by", "", "Field to sort rows by")
	refineCmd.Flags().String("sort-direction", "asc", "Sort direction: asc or desc")
	refineCmd.Flags().Int("refine-limit", 0, "Keep only the first N rows after filtering and sorting")
	refineCmd.Flags().Int("refine-year", 0, "Keep only rows tagged with this year")
	if err := viper.BindPFlags(refineCmd.Flags()); err != nil {
		contract.LogFatal("Error binding refine flags", err)
	}

	// Bind all flags of querylogMigrateCmd to Viper
	querylogMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(querylogMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding querylog migrate flags", err)
	}
}

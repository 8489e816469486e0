package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/iocache"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// querylogSetup loads minimal configuration needed for query-log operations.
// This is used by commands that need log access without full shared setup.
func querylogSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get querylog-related config values
	backendStr := viper.GetString("querylog-backend")
	connStr := viper.GetString("querylog-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no result caching for querylog commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize query log: %w", err)
	}

	cfg.QueryLogBackend = backend
	cfg.QueryLogDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// querylogSetupWrapper wraps querylogSetup to provide PreRunE for querylog commands.
func querylogSetupWrapper(_ *cobra.Command, _ []string) error {
	return querylogSetup()
}

// querylogMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func querylogMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("querylog-backend")
	connStr := viper.GetString("querylog-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetQueryLogDBFilePath()
	}

	cfg.QueryLogBackend = backend
	cfg.QueryLogDBConnect = connStr

	return nil
}

// querylogMigrateSetupWrapper wraps querylogMigrateSetup to provide PreRunE for migrate command.
func querylogMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return querylogMigrateSetup()
}

// querylogCmd focused on query-log data management.
var querylogCmd = &cobra.Command{
	Use:   "querylog",
	Short: "Manage query run logging and exports",
	Long: `Manage the historical query log used for usage tracking and reporting.

When enabled, Census records every data query, storing:
- Run metadata (timestamp, request parameters, total rows)
- Per-year fetch outcomes including failures

This enables usage analysis, failure auditing and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show query logging statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all logged data
  migrate - Run database schema migrations

Examples:
  # Check logging status
  census querylog status

  # Export for analysis in pandas/DuckDB
  census querylog export --output-file query-data.parquet`,
}

// querylogClearCmd clears the query-log data.
var querylogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all logged query runs",
	Long: `Delete all stored query runs and per-year fetch records.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  census querylog export --output-file backup.parquet
  census querylog clear`,
	PreRunE: querylogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearQueryLog(cfg.QueryLogBackend, contract.GetQueryLogDBFilePath(), cfg.QueryLogDBConnect); err != nil {
			contract.LogFatal("Failed to clear query log", err)
		}
		fmt.Println("Query log cleared successfully.")
	},
}

// querylogStatusCmd shows query-log status.
var querylogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display query logging statistics and connection details",
	Long: `Show detailed information about query run logging.

Displays:
- Backend type and connection status
- Total number of query runs stored
- Last run ID and timestamp
- Total per-year fetches recorded
- Database table sizes

Examples:
  # Check query logging status
  census querylog status`,
	PreRunE: querylogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetQueryLogStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get query log status", err)
		}
		iocache.PrintQueryLogStatus(status)
	},
}

// querylogExportCmd exports query-log data to Parquet files.
var querylogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged queries to Parquet for BI tools and analytics",
	Long: `Export all stored query-log data to Parquet format for use with analytics tools.

Exports two datasets:
- Query runs - metadata about each query execution
- Year fetches - per-year outcomes including failures

Requires: --output-file parameter

Examples:
  # Export all data
  census querylog export --output-file census-queries.parquet

  # Use with DuckDB for analysis
  census querylog export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.query_runs.parquet') LIMIT 10"`,
	PreRunE: querylogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteQueryLogExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export query log", err)
		}
	},
}

// querylogMigrateCmd runs database migrations for the query-log store.
var querylogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the query-log store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  census querylog migrate

  # Migrate to specific version
  census querylog migrate --target-version 1

  # Rollback to initial state
  census querylog migrate --target-version 0`,
	PreRunE: querylogMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateQueryLog(cfg.QueryLogBackend, cfg.QueryLogDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

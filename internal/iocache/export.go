package iocache

import (
	"errors"
	"fmt"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/parquet"
)

// ExecuteQueryLogExport performs the actual export of query-log data to Parquet files.
func ExecuteQueryLogExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetQueryLogStore()
	if store == nil {
		return errors.New("query logging is not enabled")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get query-log status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no query-log data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total query runs: %d\n", status.TotalRuns)
	fmt.Printf("Total year fetches: %d\n", status.TableSizes[yearFetchesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve query runs: %w", err)
	}

	yearRecords, err := store.GetAllYearRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve year records: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertQueryRunRecords(runs)
	parquetYears := parquet.ConvertYearFetchRecords(yearRecords)

	// Write query runs to Parquet
	runsFile := outputFile + ".query_runs.parquet"
	if err := parquet.WriteQueryRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write query runs: %w", err)
	}
	fmt.Printf("Exported %d query runs to: %s\n", len(parquetRuns), runsFile)

	// Write year fetches to Parquet
	yearsFile := outputFile + ".year_fetches.parquet"
	if err := parquet.WriteYearFetchesParquet(parquetYears, yearsFile); err != nil {
		return fmt.Errorf("failed to write year fetches: %w", err)
	}
	fmt.Printf("Exported %d year fetch records to: %s\n", len(parquetYears), yearsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}

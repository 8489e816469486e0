// Package parquet provides data structures and functions for exporting
// query-log data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// QueryRun represents a single logged query run.
// This struct maps to the census_query_runs database table.
type QueryRun struct {
	// RunID is the unique identifier for this query run
	RunID int64 `parquet:"run_id,snappy"`

	// StartedAt is when the run began, in Unix seconds
	StartedAt int64 `parquet:"started_at,snappy"`

	// EndedAt is when the run completed, in Unix seconds (nullable while in flight)
	EndedAt *int64 `parquet:"ended_at,optional,snappy"`

	// TotalRows is the number of rows returned across all years
	TotalRows int32 `parquet:"total_rows,snappy"`

	// RequestParams contains the JSON-encoded request parameters (nullable)
	RequestParams *string `parquet:"request_params,optional,snappy"`
}

// YearFetch represents the outcome of one per-year fetch within a run.
// This struct maps to the census_year_fetches database table.
type YearFetch struct {
	// RunID references the parent query run
	RunID int64 `parquet:"run_id,snappy"`

	// Year is the ACS survey year that was fetched
	Year int32 `parquet:"fetch_year,snappy"`

	// RowCount is the number of rows returned for this year
	RowCount int32 `parquet:"row_count,snappy"`

	// FetchError holds the failure message (nullable on success)
	FetchError *string `parquet:"fetch_error,optional,snappy"`
}

// WriteQueryRunsParquet writes a slice of QueryRun structs to a Parquet file.
func WriteQueryRunsParquet(data []QueryRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the QueryRun struct tags
	writer := parquet.NewGenericWriter[QueryRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteYearFetchesParquet writes a slice of YearFetch structs to a Parquet file.
func WriteYearFetchesParquet(data []YearFetch, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the YearFetch struct tags
	writer := parquet.NewGenericWriter[YearFetch](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertQueryRunRecords converts contract.QueryRunRecord to QueryRun for Parquet export.
func ConvertQueryRunRecords(records []contract.QueryRunRecord) []QueryRun {
	result := make([]QueryRun, len(records))
	for i, record := range records {
		run := QueryRun{
			RunID:     record.RunID,
			StartedAt: record.StartedAt,
			TotalRows: int32(record.TotalRows),
		}
		if record.EndedAt != 0 {
			endedAt := record.EndedAt
			run.EndedAt = &endedAt
		}
		if record.Params != "" {
			params := record.Params
			run.RequestParams = &params
		}
		result[i] = run
	}
	return result
}

// ConvertYearFetchRecords converts contract.YearFetchRecord to YearFetch for Parquet export.
func ConvertYearFetchRecords(records []contract.YearFetchRecord) []YearFetch {
	result := make([]YearFetch, len(records))
	for i, record := range records {
		fetch := YearFetch{
			RunID:    record.RunID,
			Year:     int32(record.Year),
			RowCount: int32(record.RowCount),
		}
		if record.Error != "" {
			fetchErr := record.Error
			fetch.FetchError = &fetchErr
		}
		result[i] = fetch
	}
	return result
}

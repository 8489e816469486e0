// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// Transport defines the single operation this engine needs from the Census
// data provider. This allows the core logic to be tested without network access.
// Implementations do not retry: a failed year is the caller's concern.
type Transport interface {
	// Fetch retrieves rows for one year, variable set and geography query.
	// forClause is the target clause (e.g. "county:*"); inClauses are parent
	// constraints keyed by API name (e.g. {"state": "06"}).
	Fetch(ctx context.Context, year int, codes []string, forClause string, inClauses map[string]string) ([]schema.Row, error)
}

// CacheManager defines the interface for managing durable stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetQueryLogStore() QueryLogStore
}

// CacheStore defines the interface for durable cache data storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// QueryLogStore defines the interface for tracking query runs and per-year fetches.
type QueryLogStore interface {
	// BeginRun creates a new query run and returns its unique ID.
	BeginRun(startedAt int64, params map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endedAt int64, totalRows int) error

	// RecordYear stores the outcome of one per-year fetch.
	RecordYear(runID int64, year int, rowCount int, fetchErr string) error

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]QueryRunRecord, error)

	// GetAllYearRecords returns every per-year record, oldest first.
	GetAllYearRecords() ([]YearFetchRecord, error)

	// GetStatus returns status information about the query-log store.
	GetStatus() (schema.QueryLogStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// QueryRunRecord is one logged query run as stored in the query-log backend.
type QueryRunRecord struct {
	RunID     int64
	StartedAt int64 // Unix seconds
	EndedAt   int64 // Unix seconds, 0 while in flight
	TotalRows int
	Params    string // JSON-encoded request parameters
}

// YearFetchRecord is one logged per-year fetch outcome.
type YearFetchRecord struct {
	RunID    int64
	Year     int
	RowCount int
	Error    string // Empty on success
}

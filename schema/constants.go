package schema

// Custom string types for type safety.
type (
	// GeoLevel represents a canonical Census geography level.
	GeoLevel string

	// MetricKey represents a derived-metric identifier.
	MetricKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and query logging.
	DatabaseBackend string
)

// All geography levels supported.
const (
	USLevel       GeoLevel = "us"
	StateLevel    GeoLevel = "state"
	CountyLevel   GeoLevel = "county"
	PlaceLevel    GeoLevel = "place"
	DistrictLevel GeoLevel = "congressional district"
	ZCTALevel     GeoLevel = "zip code tabulation area"
	MetroLevel    GeoLevel = "metropolitan statistical area"
	TractLevel    GeoLevel = "tract"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// CacheStatus reports connection and content statistics for a cache store.
type CacheStatus struct {
	Backend         string `json:"backend"`
	Connected       bool   `json:"connected"`
	TotalEntries    int64  `json:"total_entries"`
	LastEntryTime   int64  `json:"last_entry_time,omitempty"`   // Unix seconds
	OldestEntryTime int64  `json:"oldest_entry_time,omitempty"` // Unix seconds
}

// QueryLogStatus reports statistics for the query-log store.
type QueryLogStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int64            `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id,omitempty"`
	LastRunTime    int64            `json:"last_run_time,omitempty"` // Unix seconds
	TotalYearsRead int64            `json:"total_years_read"`
	TableSizes     map[string]int64 `json:"table_sizes,omitempty"`
}

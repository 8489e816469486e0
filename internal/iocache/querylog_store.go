package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// Table names for query-log tracking.
const (
	queryRunsTable   = "census_query_runs"
	yearFetchesTable = "census_year_fetches"
)

// QueryLogStoreImpl implements the QueryLogStore interface.
type QueryLogStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.QueryLogStore = &QueryLogStoreImpl{} // Compile-time check

// NewQueryLogStore creates a new QueryLogStore with the specified backend.
func NewQueryLogStore(backend schema.DatabaseBackend, connStr string) (contract.QueryLogStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled logging
		return &QueryLogStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackend(backend, connStr, GetQueryLogDBFilePath())
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := createQueryLogTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create query-log tables: %w", err)
	}

	var driverName string
	switch backend {
	case schema.MySQLBackend:
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		driverName = "pgx"
	default:
		driverName = "sqlite"
	}

	return &QueryLogStoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// createQueryLogTables creates the query-log tracking tables.
func createQueryLogTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{queryRunsTable, getCreateQueryRunsQuery(backend)},
		{yearFetchesTable, getCreateYearFetchesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateQueryRunsQuery returns the CREATE TABLE query for census_query_runs.
// Timestamps are stored as Unix seconds so every backend scans to int64.
func getCreateQueryRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(queryRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				started_at BIGINT NOT NULL,
				ended_at BIGINT,
				total_rows INT,
				request_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				started_at BIGINT NOT NULL,
				ended_at BIGINT,
				total_rows INT,
				request_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				started_at INTEGER NOT NULL,
				ended_at INTEGER,
				total_rows INTEGER,
				request_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateYearFetchesQuery returns the CREATE TABLE query for census_year_fetches.
func getCreateYearFetchesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(yearFetchesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				fetch_year INT NOT NULL,
				row_count INT NOT NULL,
				fetch_error TEXT,
				PRIMARY KEY (run_id, fetch_year)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				fetch_year INT NOT NULL,
				row_count INT NOT NULL,
				fetch_error TEXT,
				PRIMARY KEY (run_id, fetch_year)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				fetch_year INTEGER NOT NULL,
				row_count INTEGER NOT NULL,
				fetch_error TEXT,
				PRIMARY KEY (run_id, fetch_year)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new query run and returns its unique ID.
func (qs *QueryLogStoreImpl) BeginRun(startedAt int64, params map[string]any) (int64, error) {
	// Skip for NoneBackend
	if qs.backend == schema.NoneBackend || qs.db == nil {
		return 0, nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request params: %w", err)
	}

	quotedTableName := quoteTableName(queryRunsTable, qs.backend)

	var runID int64
	switch qs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (started_at, request_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = qs.db.QueryRow(query, startedAt, string(paramsJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (started_at, request_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = qs.db.Exec(query, startedAt, string(paramsJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert query run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (qs *QueryLogStoreImpl) EndRun(runID int64, endedAt int64, totalRows int) error {
	// Skip for NoneBackend
	if qs.backend == schema.NoneBackend || qs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(queryRunsTable, qs.backend)

	var query string
	switch qs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET ended_at = $1, total_rows = $2 WHERE run_id = $3`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET ended_at = ?, total_rows = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := qs.db.Exec(query, endedAt, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update query run: %w", err)
	}
	return nil
}

// RecordYear stores the outcome of one per-year fetch.
func (qs *QueryLogStoreImpl) RecordYear(runID int64, year int, rowCount int, fetchErr string) error {
	// Skip for NoneBackend
	if qs.backend == schema.NoneBackend || qs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(yearFetchesTable, qs.backend)

	var query string
	switch qs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, fetch_year, row_count, fetch_error) VALUES ($1, $2, $3, $4)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, fetch_year, row_count, fetch_error) VALUES (?, ?, ?, ?)`, quotedTableName)
	}

	if _, err := qs.db.Exec(query, runID, year, rowCount, fetchErr); err != nil {
		return fmt.Errorf("failed to insert year fetch record: %w", err)
	}
	return nil
}

// GetAllRuns retrieves all query runs from the store, oldest first.
func (qs *QueryLogStoreImpl) GetAllRuns() ([]contract.QueryRunRecord, error) {
	// Skip for NoneBackend
	if qs.backend == schema.NoneBackend || qs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(queryRunsTable, qs.backend)
	query := fmt.Sprintf(
		"SELECT run_id, started_at, COALESCE(ended_at, 0), COALESCE(total_rows, 0), COALESCE(request_params, '') FROM %s ORDER BY run_id",
		quotedTableName,
	)

	rows, err := qs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.QueryRunRecord
	for rows.Next() {
		var record contract.QueryRunRecord
		if err := rows.Scan(&record.RunID, &record.StartedAt, &record.EndedAt, &record.TotalRows, &record.Params); err != nil {
			return nil, fmt.Errorf("failed to scan query run: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query runs: %w", err)
	}

	return results, nil
}

// GetAllYearRecords retrieves all per-year fetch records, oldest first.
func (qs *QueryLogStoreImpl) GetAllYearRecords() ([]contract.YearFetchRecord, error) {
	// Skip for NoneBackend
	if qs.backend == schema.NoneBackend || qs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(yearFetchesTable, qs.backend)
	query := fmt.Sprintf(
		"SELECT run_id, fetch_year, row_count, COALESCE(fetch_error, '') FROM %s ORDER BY run_id, fetch_year",
		quotedTableName,
	)

	rows, err := qs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query year records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.YearFetchRecord
	for rows.Next() {
		var record contract.YearFetchRecord
		if err := rows.Scan(&record.RunID, &record.Year, &record.RowCount, &record.Error); err != nil {
			return nil, fmt.Errorf("failed to scan year record: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating year records: %w", err)
	}

	return results, nil
}

// GetStatus returns status information about the query-log store.
func (qs *QueryLogStoreImpl) GetStatus() (schema.QueryLogStatus, error) {
	status := schema.QueryLogStatus{
		Backend:    string(qs.backend),
		Connected:  qs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if qs.backend == schema.NoneBackend || qs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(queryRunsTable, qs.backend))
	if err := qs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf(
			"SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1",
			quoteTableName(queryRunsTable, qs.backend),
		)
		if err := qs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &status.LastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		yearsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(yearFetchesTable, qs.backend))
		if err := qs.db.QueryRow(yearsQuery).Scan(&status.TotalYearsRead); err != nil {
			return status, fmt.Errorf("failed to get total years read: %w", err)
		}
	}

	for _, table := range []string{queryRunsTable, yearFetchesTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, qs.backend))
		var count int64
		if err := qs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// Close closes the underlying connection.
func (qs *QueryLogStoreImpl) Close() error {
	if qs.db != nil {
		return qs.db.Close()
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// sqlCacheStore is a CacheStore backed by a SQL database. The same table shape
// is used across SQLite, MySQL and PostgreSQL; only placeholders and upsert
// syntax differ per backend.
type sqlCacheStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	table   string
}

var _ contract.CacheStore = &sqlCacheStore{} // Compile-time check

// NewCacheStore creates a CacheStore for the given backend. For SQLite the
// connection string is optional and defaults to a file under ~/.census.
func NewCacheStore(table string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if backend == schema.NoneBackend {
		return &noopCacheStore{}, nil
	}

	db, err := openBackend(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, err
	}

	store := &sqlCacheStore{db: db, backend: backend, table: table}
	if err := store.createTable(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	return store, nil
}

// openBackend opens a database handle for the backend, creating the parent
// directory for SQLite file paths.
func openBackend(backend schema.DatabaseBackend, connStr, defaultSQLitePath string) (*sql.DB, error) {
	var driverName, dsn string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dsn = connStr
		if dsn == "" {
			dsn = defaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case schema.MySQLBackend:
		driverName = "mysql"
		dsn = connStr
	case schema.PostgreSQLBackend:
		driverName = "pgx"
		dsn = connStr
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	return db, nil
}

func (s *sqlCacheStore) createTable() error {
	var blobType string
	switch s.backend {
	case schema.MySQLBackend:
		blobType = "LONGBLOB"
	case schema.PostgreSQLBackend:
		blobType = "BYTEA"
	default:
		blobType = "BLOB"
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		cache_key VARCHAR(64) PRIMARY KEY,
		cache_value %s NOT NULL,
		cache_version INTEGER NOT NULL,
		cache_timestamp BIGINT NOT NULL
	)`, s.table, blobType)

	_, err := s.db.Exec(query)
	return err
}

// Get retrieves cached data along with its version and Unix timestamp.
// A cache miss returns sql.ErrNoRows.
func (s *sqlCacheStore) Get(key string) ([]byte, int, int64, error) {
	query := fmt.Sprintf(
		"SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s",
		s.table, s.placeholder(1),
	)

	var value []byte
	var version int
	var timestamp int64
	err := s.db.QueryRow(query, key).Scan(&value, &version, &timestamp)
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, timestamp, nil
}

// Set stores data under the key, overwriting any existing entry.
func (s *sqlCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET
				cache_value = EXCLUDED.cache_value,
				cache_version = EXCLUDED.cache_version,
				cache_timestamp = EXCLUDED.cache_timestamp`, s.table)
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				cache_value = VALUES(cache_value),
				cache_version = VALUES(cache_version),
				cache_timestamp = VALUES(cache_timestamp)`, s.table)
	default:
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp)
			VALUES (?, ?, ?, ?)`, s.table)
	}

	_, err := s.db.Exec(query, key, value, version, timestamp)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// GetStatus reports entry count and timestamp range for the cache table.
func (s *sqlCacheStore) GetStatus() (schema.CacheStatus, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(MIN(cache_timestamp), 0), COALESCE(MAX(cache_timestamp), 0) FROM %s",
		s.table,
	)

	var count, oldest, newest int64
	if err := s.db.QueryRow(query).Scan(&count, &oldest, &newest); err != nil {
		return schema.CacheStatus{}, fmt.Errorf("failed to query cache status: %w", err)
	}

	return schema.CacheStatus{
		Backend:         string(s.backend),
		Connected:       true,
		TotalEntries:    count,
		LastEntryTime:   newest,
		OldestEntryTime: oldest,
	}, nil
}

func (s *sqlCacheStore) Close() error {
	return s.db.Close()
}

// placeholder returns the parameter placeholder for the backend.
func (s *sqlCacheStore) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// noopCacheStore satisfies CacheStore when durable caching is disabled.
type noopCacheStore struct{}

var _ contract.CacheStore = &noopCacheStore{}

func (n *noopCacheStore) Get(string) ([]byte, int, int64, error) {
	return nil, 0, 0, sql.ErrNoRows
}

func (n *noopCacheStore) Set(string, []byte, int, int64) error { return nil }

func (n *noopCacheStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
}

func (n *noopCacheStore) Close() error { return nil }

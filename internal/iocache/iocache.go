// Package iocache provides durable storage for cached results and query logs.
package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// resultTable is the name of the table for cached time-series results.
const resultTable = "census_result_cache"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreManager manages the result cache and query-log store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	results      contract.CacheStore
	querylog     contract.QueryLogStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetResultStore returns the durable result CacheStore.
func (mgr *StoreManager) GetResultStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}

// GetQueryLogStore returns the QueryLogStore.
func (mgr *StoreManager) GetQueryLogStore() contract.QueryLogStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.querylog
}

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetQueryLogDBFilePath returns the path to the SQLite DB file for query logging.
func GetQueryLogDBFilePath() string {
	return contract.GetQueryLogDBFilePath()
}

// InitStores initializes the global manager with separate cache and query-log
// stores. Either backend can be empty to leave that store disabled.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, querylogBackend schema.DatabaseBackend, querylogConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var resultStore contract.CacheStore
		var querylogStore contract.QueryLogStore
		var err error

		if cacheBackend != "" {
			resultStore, err = NewCacheStore(resultTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize result caching: %w", err)
				return
			}
		}

		if querylogBackend != "" {
			querylogStore, err = NewQueryLogStore(querylogBackend, querylogConnStr)
			if err != nil {
				if resultStore != nil {
					_ = resultStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize query log: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.results = resultStore
		Manager.querylog = querylogStore
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.results != nil {
			_ = Manager.results.Close()
		}
		if Manager.querylog != nil {
			_ = Manager.querylog.Close()
		}
	})
}

// ClearCache clears the result cache for the specified backend.
// For SQLite it deletes the database file; for MySQL/PostgreSQL it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, resultTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, resultTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearQueryLog clears the query-log data for the specified backend.
func ClearQueryLog(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		for _, table := range []string{queryRunsTable, yearFetchesTable} {
			if err := clearSQLTable("mysql", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.PostgreSQLBackend:
		for _, table := range []string{queryRunsTable, yearFetchesTable} {
			if err := clearSQLTable("pgx", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported querylog backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

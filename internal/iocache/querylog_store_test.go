package iocache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

func newSQLiteQueryLogStore(t *testing.T) contract.QueryLogStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "querylog.db")
	store, err := NewQueryLogStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestQueryLogStoreLifecycle tests the full run recording flow on SQLite.
func TestQueryLogStoreLifecycle(t *testing.T) {
	store := newSQLiteQueryLogStore(t)

	params := map[string]any{
		"geography_level": "state",
		"variables":       []string{"total_population"},
		"start_year":      2020,
		"end_year":        2022,
	}

	runID, err := store.BeginRun(1700000000, params)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordYear(runID, 2020, 52, ""))
	require.NoError(t, store.RecordYear(runID, 2021, 52, ""))
	require.NoError(t, store.RecordYear(runID, 2022, 0, "census API returned HTTP 500"))
	require.NoError(t, store.EndRun(runID, 1700000010, 104))

	t.Run("runs retrievable oldest first", func(t *testing.T) {
		runs, err := store.GetAllRuns()
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, runID, runs[0].RunID)
		assert.Equal(t, int64(1700000000), runs[0].StartedAt)
		assert.Equal(t, int64(1700000010), runs[0].EndedAt)
		assert.Equal(t, 104, runs[0].TotalRows)
		assert.Contains(t, runs[0].Params, "total_population")
	})

	t.Run("year records ordered by run then year", func(t *testing.T) {
		records, err := store.GetAllYearRecords()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, 2020, records[0].Year)
		assert.Equal(t, 52, records[0].RowCount)
		assert.Empty(t, records[0].Error)
		assert.Equal(t, 2022, records[2].Year)
		assert.Equal(t, 0, records[2].RowCount)
		assert.Contains(t, records[2].Error, "HTTP 500")
	})

	t.Run("status reflects stored data", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, int64(1), status.TotalRuns)
		assert.Equal(t, runID, status.LastRunID)
		assert.Equal(t, int64(1700000000), status.LastRunTime)
		assert.Equal(t, int64(3), status.TotalYearsRead)
		assert.Equal(t, int64(1), status.TableSizes[queryRunsTable])
		assert.Equal(t, int64(3), status.TableSizes[yearFetchesTable])
	})
}

// TestQueryLogStoreMultipleRuns tests run IDs increase monotonically.
func TestQueryLogStoreMultipleRuns(t *testing.T) {
	store := newSQLiteQueryLogStore(t)

	first, err := store.BeginRun(100, map[string]any{"n": 1})
	require.NoError(t, err)
	second, err := store.BeginRun(200, map[string]any{"n": 2})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].RunID)
	assert.Equal(t, second, runs[1].RunID)

	// An unfinished run reports zero values through COALESCE.
	assert.Equal(t, int64(0), runs[0].EndedAt)
	assert.Equal(t, 0, runs[0].TotalRows)
}

// TestQueryLogStoreNoneBackend tests that disabled logging is a no-op.
func TestQueryLogStoreNoneBackend(t *testing.T) {
	store, err := NewQueryLogStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(100, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordYear(0, 2020, 10, ""))
	assert.NoError(t, store.EndRun(0, 200, 10))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, string(schema.NoneBackend), status.Backend)

	assert.NoError(t, store.Close())
}

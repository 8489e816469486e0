package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

func newSQLiteCacheStore(t *testing.T) contract.CacheStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(resultTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestSQLiteCacheStore tests the durable cache round trip on SQLite.
func TestSQLiteCacheStore(t *testing.T) {
	t.Run("set and get round trip", func(t *testing.T) {
		store := newSQLiteCacheStore(t)

		require.NoError(t, store.Set("key-1", []byte(`{"a":1}`), 1, 1700000000))

		value, version, ts, err := store.Get("key-1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"a":1}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("miss returns ErrNoRows", func(t *testing.T) {
		store := newSQLiteCacheStore(t)
		_, _, _, err := store.Get("absent")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set overwrites existing entry", func(t *testing.T) {
		store := newSQLiteCacheStore(t)

		require.NoError(t, store.Set("key", []byte("old"), 1, 100))
		require.NoError(t, store.Set("key", []byte("new"), 2, 200))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(200), ts)
	})

	t.Run("status reports entry range", func(t *testing.T) {
		store := newSQLiteCacheStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, int64(0), status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("x"), 1, 100))
		require.NoError(t, store.Set("b", []byte("y"), 1, 300))

		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, int64(2), status.TotalEntries)
		assert.Equal(t, int64(100), status.OldestEntryTime)
		assert.Equal(t, int64(300), status.LastEntryTime)
		assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
	})

	t.Run("entries survive reopen", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		store, err := NewCacheStore(resultTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Set("durable", []byte("payload"), 1, 42))
		require.NoError(t, store.Close())

		reopened, err := NewCacheStore(resultTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		defer func() { _ = reopened.Close() }()

		value, _, _, err := reopened.Get("durable")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), value)
	})
}

// TestNoopCacheStore tests the disabled-cache store.
func TestNoopCacheStore(t *testing.T) {
	store, err := NewCacheStore(resultTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, string(schema.NoneBackend), status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

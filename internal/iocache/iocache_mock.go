package iocache

import (
	"github.com/stretchr/testify/mock"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetResultStore implements the CacheManager interface.
func (m *MockCacheManager) GetResultStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetQueryLogStore implements the CacheManager interface.
func (m *MockCacheManager) GetQueryLogStore() contract.QueryLogStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.QueryLogStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockQueryLogStore is a mock implementation of QueryLogStore for testing.
type MockQueryLogStore struct {
	mock.Mock
}

var _ contract.QueryLogStore = &MockQueryLogStore{} // Compile-time check

// BeginRun implements the QueryLogStore interface.
func (m *MockQueryLogStore) BeginRun(startedAt int64, params map[string]any) (int64, error) {
	args := m.Called(startedAt, params)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the QueryLogStore interface.
func (m *MockQueryLogStore) EndRun(runID int64, endedAt int64, totalRows int) error {
	args := m.Called(runID, endedAt, totalRows)
	return args.Error(0)
}

// RecordYear implements the QueryLogStore interface.
func (m *MockQueryLogStore) RecordYear(runID int64, year int, rowCount int, fetchErr string) error {
	args := m.Called(runID, year, rowCount, fetchErr)
	return args.Error(0)
}

// GetAllRuns implements the QueryLogStore interface.
func (m *MockQueryLogStore) GetAllRuns() ([]contract.QueryRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]contract.QueryRunRecord)
	return runs, args.Error(1)
}

// GetAllYearRecords implements the QueryLogStore interface.
func (m *MockQueryLogStore) GetAllYearRecords() ([]contract.YearFetchRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]contract.YearFetchRecord)
	return records, args.Error(1)
}

// GetStatus implements the QueryLogStore interface.
func (m *MockQueryLogStore) GetStatus() (schema.QueryLogStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.QueryLogStatus), args.Error(1)
}

// Close implements the QueryLogStore interface.
func (m *MockQueryLogStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

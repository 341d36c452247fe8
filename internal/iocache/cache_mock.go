package iocache

import (
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetSnapshotStore implements the CacheManager interface.
func (m *MockCacheManager) GetSnapshotStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetHistoryStore implements the CacheManager interface.
func (m *MockCacheManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
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
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, params schema.RunParams) (int64, error) {
	args := m.Called(startTime, params)
	return args.Get(0).(int64), args.Error(1)
}

// RecordSection implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSection(runID int64, index int, section schema.Section) error {
	args := m.Called(runID, index, section)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, reportCount, sectionCount int) error {
	args := m.Called(runID, endTime, reportCount, sectionCount)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RenderRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RenderRunRecord)
	return runs, args.Error(1)
}

// GetAllSections implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSections() ([]schema.SectionRecord, error) {
	args := m.Called()
	sections, _ := args.Get(0).([]schema.SectionRecord)
	return sections, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

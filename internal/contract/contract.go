// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/benchgrid/schema"
)

// ReportSource defines where a Fortio report collection comes from.
// This allows the pipeline to be tested without touching disk or network.
type ReportSource interface {
	// ID returns a stable identifier for the source, such as a path or URL.
	ID() string

	// Fingerprint returns a value that changes whenever the content may have changed.
	Fingerprint(ctx context.Context) (string, error)

	// Fetch returns the raw report collection bytes.
	Fetch(ctx context.Context) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording render runs and their sections.
type HistoryStore interface {
	// BeginRun creates a new render run and returns its unique ID
	BeginRun(startTime time.Time, params schema.RunParams) (int64, error)

	// RecordSection stores the summary of one built section
	RecordSection(runID int64, index int, section schema.Section) error

	// EndRun updates the render run with completion data
	EndRun(runID int64, endTime time.Time, reportCount, sectionCount int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RenderRunRecord, error)

	// GetAllSections returns every recorded section, ordered by run and index
	GetAllSections() ([]schema.SectionRecord, error)

	// Close closes the underlying connection
	Close() error
}

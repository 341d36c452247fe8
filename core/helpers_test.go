package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/fetch"
	"github.com/huangsam/benchgrid/internal/iocache"
	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fixturePath holds two reports from the "nightly" run: a proxy and a baseline.
var fixturePath = filepath.Join("ingest", "testdata", "reports.json")

func fixtureData(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	return data
}

func testConfig() *contract.Config {
	return &contract.Config{
		Source:       fixturePath,
		Grouping:     schema.ByRun,
		Scaling:      schema.AbsoluteScale,
		RowOrder:     schema.KindThenName,
		Axis:         schema.EveryAxis,
		RowHeight:    schema.DefaultRowHeight,
		Output:       schema.TextOut,
		Precision:    2,
		Width:        120,
		Timeout:      time.Second,
		CacheBackend: schema.NoneBackend,
		CacheTTL:     time.Hour,
		View:         schema.BothViews,
		Interval:     time.Hour,
	}
}

// newMockSource returns a source with a fixed identity serving data.
func newMockSource(data []byte, fetchErr error) *fetch.MockReportSource {
	src := &fetch.MockReportSource{}
	src.On("ID").Return("reports.json")
	src.On("Fingerprint", mock.Anything).Return("fp-1", nil)
	src.On("Fetch", mock.Anything).Return(data, fetchErr)
	return src
}

// newManager returns a cache manager with the given stores. Nil stores disable that layer.
func newManager(snapshot contract.CacheStore, history contract.HistoryStore) *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	if snapshot == nil {
		mgr.On("GetSnapshotStore").Return(nil)
	} else {
		mgr.On("GetSnapshotStore").Return(snapshot)
	}
	if history == nil {
		mgr.On("GetHistoryStore").Return(nil)
	} else {
		mgr.On("GetHistoryStore").Return(history)
	}
	return mgr
}

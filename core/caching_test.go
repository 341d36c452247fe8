package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/benchgrid/internal/fetch"
	"github.com/huangsam/benchgrid/internal/iocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadReportsWithoutCache(t *testing.T) {
	src := newMockSource(fixtureData(t), nil)

	reports, err := loadReports(context.Background(), testConfig(), src, newManager(nil, nil))
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	src.AssertNumberOfCalls(t, "Fetch", 1)

	reports, err = loadReports(context.Background(), testConfig(), src, nil)
	require.NoError(t, err)
	assert.Len(t, reports, 2, "nil manager fetches directly")
}

func TestLoadReportsCacheHit(t *testing.T) {
	src := newMockSource(nil, errors.New("must not fetch"))
	key := generateCacheKey(context.Background(), src)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(fixtureData(t), currentCacheVersion, time.Now().Unix(), nil)

	reports, err := loadReports(context.Background(), testConfig(), src, newManager(store, nil))
	require.NoError(t, err)
	assert.Len(t, reports, 2)
	src.AssertNotCalled(t, "Fetch", mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadReportsCacheMisses(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		version int
		age     time.Duration
		getErr  error
	}{
		{name: "no entry", getErr: errors.New("miss")},
		{name: "old version", version: currentCacheVersion + 1},
		{name: "stale entry", version: currentCacheVersion, age: 2 * time.Hour},
		{name: "entry does not decode", data: []byte(`{"not":"an array"}`), version: currentCacheVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := fixtureData(t)
			src := newMockSource(fixture, nil)
			key := generateCacheKey(context.Background(), src)

			cached := tt.data
			if cached == nil && tt.getErr == nil {
				cached = fixture
			}
			store := &iocache.MockCacheStore{}
			store.On("Get", key).Return(cached, tt.version, time.Now().Add(-tt.age).Unix(), tt.getErr)
			store.On("Set", key, fixture, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

			reports, err := loadReports(context.Background(), testConfig(), src, newManager(store, nil))
			require.NoError(t, err)
			assert.Len(t, reports, 2)
			src.AssertNumberOfCalls(t, "Fetch", 1)
			store.AssertNumberOfCalls(t, "Set", 1)
		})
	}
}

func TestLoadReportsBypassCache(t *testing.T) {
	fixture := fixtureData(t)
	src := newMockSource(fixture, nil)
	store := &iocache.MockCacheStore{}
	store.On("Set", mock.Anything, fixture, currentCacheVersion, mock.Anything).Return(nil)

	_, err := loadReports(withBypassCache(context.Background()), testConfig(), src, newManager(store, nil))
	require.NoError(t, err)
	store.AssertNotCalled(t, "Get", mock.Anything)
	store.AssertNumberOfCalls(t, "Set", 1)
}

func TestLoadReportsErrors(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		src := newMockSource(nil, errors.New("connection refused"))
		_, err := loadReports(context.Background(), testConfig(), src, nil)
		assert.EqualError(t, err, "connection refused")
	})

	t.Run("decode error is not cached", func(t *testing.T) {
		src := newMockSource([]byte(`{}`), nil)
		store := &iocache.MockCacheStore{}
		store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss"))

		_, err := loadReports(context.Background(), testConfig(), src, newManager(store, nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode reports from reports.json")
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache write error is only a warning", func(t *testing.T) {
		src := newMockSource(fixtureData(t), nil)
		store := &iocache.MockCacheStore{}
		store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss"))
		store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

		reports, err := loadReports(context.Background(), testConfig(), src, newManager(store, nil))
		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})
}

func TestCheckCacheHitDefaultTTL(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", "k").Return([]byte("[]"), currentCacheVersion, time.Now().Add(-time.Hour).Unix(), nil)
	assert.Equal(t, []byte("[]"), checkCacheHit(store, "k", 0), "zero ttl falls back to the default")
}

func TestGenerateCacheKey(t *testing.T) {
	ctx := context.Background()
	withFingerprint := func(fp string, err error) *fetch.MockReportSource {
		src := &fetch.MockReportSource{}
		src.On("ID").Return("reports.json")
		src.On("Fingerprint", mock.Anything).Return(fp, err)
		return src
	}

	key := generateCacheKey(ctx, withFingerprint("fp-1", nil))
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey(ctx, withFingerprint("fp-1", nil)), "keys are deterministic")
	assert.NotEqual(t, key, generateCacheKey(ctx, withFingerprint("fp-2", nil)), "content changes invalidate the key")
	assert.Equal(t,
		generateCacheKey(ctx, withFingerprint("", nil)),
		generateCacheKey(ctx, withFingerprint("", errors.New("stat failed"))),
		"fingerprint errors fall back to an empty fingerprint")
}

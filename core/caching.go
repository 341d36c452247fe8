package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/benchgrid/core/ingest"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// loadReports fetches and decodes the report collection of src, serving it
// from the snapshot cache when a fresh entry exists.
func loadReports(ctx context.Context, cfg *contract.Config, src contract.ReportSource, mgr contract.CacheManager) ([]schema.Report, error) {
	store := snapshotStore(mgr)
	if store == nil {
		// Fallback to direct fetch
		return fetchAndStore(ctx, src, nil, "")
	}

	key := generateCacheKey(ctx, src)

	if !shouldBypassCache(ctx) {
		if data := checkCacheHit(store, key, cfg.CacheTTL); data != nil {
			// An entry that no longer decodes is treated as a miss
			if reports, err := ingest.Decode(data); err == nil {
				return reports, nil
			}
		}
	}

	return fetchAndStore(ctx, src, store, key)
}

// snapshotStore returns the configured snapshot store, or nil when caching is off.
func snapshotStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSnapshotStore()
}

// checkCacheHit attempts to retrieve and validate a cached payload
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) []byte {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}

	// Validate version and staleness
	if version == currentCacheVersion && time.Since(time.Unix(ts, 0)) <= ttl && len(data) > 0 {
		return data // Cache hit
	}

	return nil // Cache miss (stale or version mismatch)
}

// fetchAndStore fetches and decodes the payload and stores it in cache when it decodes
func fetchAndStore(ctx context.Context, src contract.ReportSource, store contract.CacheStore, key string) ([]schema.Report, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := ingest.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode reports from %s: %w", src.ID(), err)
	}

	if store != nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache reports", err)
		}
	}
	return reports, nil
}

// generateCacheKey creates a unique key based on the source identity and its fingerprint
func generateCacheKey(ctx context.Context, src contract.ReportSource) string {
	fingerprint, err := src.Fingerprint(ctx)
	if err != nil {
		fingerprint = ""
	}
	key := fmt.Sprintf("%s|%s", src.ID(), fingerprint)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

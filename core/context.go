package core

import "context"

// Context keys for pipeline options
type contextKey string

const (
	bypassCacheKey contextKey = "bypassCache"
	runIDKey       contextKey = "runID"
)

// withBypassCache makes report loading skip the snapshot cache lookup
func withBypassCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey, true)
}

// shouldBypassCache returns whether the snapshot cache lookup should be skipped
func shouldBypassCache(ctx context.Context) bool {
	val := ctx.Value(bypassCacheKey)
	if val == nil {
		return false // default: use the cache
	}
	bypass, ok := val.(bool)
	return ok && bypass
}

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFromContext returns the history run ID, or 0 when none is tracked
func runIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(runIDKey).(int64); ok {
		return id
	}
	return 0
}

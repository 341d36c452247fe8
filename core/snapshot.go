package core

import (
	"sync"
	"time"

	"github.com/huangsam/benchgrid/schema"
)

// SnapshotHolder keeps the most recently committed report snapshot. Every
// fetch takes a sequence number from Begin, and a resolution is accepted only
// when it is newer than the committed one.
type SnapshotHolder struct {
	mu      sync.RWMutex
	next    uint64
	current schema.Snapshot
}

// NewSnapshotHolder returns a holder with an empty snapshot at sequence 0.
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{current: schema.Snapshot{Reports: []schema.Report{}}}
}

// Begin reserves the sequence number for a new fetch.
func (h *SnapshotHolder) Begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	return h.next
}

// Commit installs reports as the current snapshot if seq is newer than the
// committed one. It returns false when the resolution is stale.
func (h *SnapshotHolder) Commit(seq uint64, reports []schema.Report, fetchedAt time.Time) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seq <= h.current.Seq {
		return false
	}
	if reports == nil {
		reports = []schema.Report{}
	}
	h.current = schema.Snapshot{Seq: seq, Reports: reports, FetchedAt: fetchedAt}
	return true
}

// Current returns the committed snapshot.
func (h *SnapshotHolder) Current() schema.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

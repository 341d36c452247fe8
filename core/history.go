package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
)

// runTracker records one build in the history store. A tracker without a
// store or run ID does nothing, and tracking failures never fail the build.
type runTracker struct {
	store contract.HistoryStore
	runID int64
}

// beginRun starts history tracking for cfg if a history store is configured.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (context.Context, *runTracker) {
	tracker := &runTracker{}
	if mgr == nil {
		return ctx, tracker
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx, tracker
	}
	tracker.store = store

	params := schema.RunParams{
		Source:   cfg.Source,
		Grouping: cfg.Grouping,
		Scaling:  cfg.Scaling,
		RowOrder: cfg.RowOrder,
		Config: map[string]any{
			"axis":          string(cfg.Axis),
			"row_height":    cfg.RowHeight,
			"output":        string(cfg.Output),
			"cache_backend": string(cfg.CacheBackend),
		},
	}
	runID, err := store.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("Render history initialization failed", err)
		return ctx, tracker
	}
	tracker.runID = runID
	return withRunID(ctx, runID), tracker
}

// active reports whether the tracker has a run to record into.
func (t *runTracker) active() bool {
	return t.store != nil && t.runID > 0
}

// recordSections stores the summary of every section.
func (t *runTracker) recordSections(sections []schema.Section) {
	if !t.active() {
		return
	}
	for i, s := range sections {
		if err := t.store.RecordSection(t.runID, i, s); err != nil {
			contract.LogWarn(fmt.Sprintf("Render history failed for section %d (%s)", i, s.Title), err)
		}
	}
}

// end finalizes the run.
func (t *runTracker) end(reportCount, sectionCount int) {
	if !t.active() {
		return
	}
	if err := t.store.EndRun(t.runID, time.Now(), reportCount, sectionCount); err != nil {
		contract.LogWarn("Failed to finalize render history", err)
	}
}

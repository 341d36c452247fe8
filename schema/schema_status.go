package schema

import "time"

// CacheStatus represents the status of the snapshot cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the render history store.
type HistoryStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	TotalRuns      int              `json:"total_runs"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	TotalSections  int              `json:"total_sections"`
	TableSizes     map[string]int64 `json:"table_sizes"`
}

// RenderRunRecord represents a row from the benchgrid_render_runs table.
type RenderRunRecord struct {
	RunID        int64      `json:"run_id"`
	RunUUID      string     `json:"run_uuid"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	DurationMs   *int64     `json:"duration_ms,omitempty"`
	Source       string     `json:"source"`
	Grouping     string     `json:"grouping"`
	Scaling      string     `json:"scaling"`
	RowOrder     string     `json:"row_order"`
	ReportCount  *int64     `json:"report_count,omitempty"`
	SectionCount *int64     `json:"section_count,omitempty"`
	ConfigParams *string    `json:"config_params,omitempty"`
}

// SectionRecord represents a row from the benchgrid_render_sections table.
type SectionRecord struct {
	RunID        int64   `json:"run_id"`
	SectionIndex int     `json:"section_index"`
	Title        string  `json:"title"`
	RowCount     int     `json:"row_count"`
	MaxLatency   float64 `json:"max_latency"`
	MaxRequests  int64   `json:"max_requests"`
	ShowAxis     bool    `json:"show_axis"`
}

// RunParams describes the inputs of one render run for history tracking.
type RunParams struct {
	Source   string
	Grouping GroupingMode
	Scaling  ScalingMode
	RowOrder RowOrder
	Config   map[string]any
}

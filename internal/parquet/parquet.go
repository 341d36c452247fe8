// Package parquet provides data structures and functions for exporting benchgrid
// sections and render history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/benchgrid/schema"
	"github.com/parquet-go/parquet-go"
)

// RenderRun represents a single recorded render run.
// This struct maps to the benchgrid_render_runs database table.
type RenderRun struct {
	// RunID is the unique identifier for this render run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this render run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the render began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the render completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the render in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	Source   string `parquet:"source,snappy"`
	Grouping string `parquet:"grouping,snappy"`
	Scaling  string `parquet:"scaling,snappy"`
	RowOrder string `parquet:"row_order,snappy"`

	// ReportCount is the number of reports ingested (nullable)
	ReportCount *int64 `parquet:"report_count,optional,snappy"`

	// SectionCount is the number of sections built (nullable)
	SectionCount *int64 `parquet:"section_count,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RenderSection represents the summary of one section within a render run.
// This struct maps to the benchgrid_render_sections database table.
type RenderSection struct {
	RunID        int64   `parquet:"run_id,snappy"`
	SectionIndex int32   `parquet:"section_index,snappy"`
	Title        string  `parquet:"title,snappy"`
	RowCount     int32   `parquet:"row_count,snappy"`
	MaxLatency   float64 `parquet:"max_latency,snappy"`
	MaxRequests  int64   `parquet:"max_requests,snappy"`
	ShowAxis     bool    `parquet:"show_axis"`
}

// SectionRow is one row of a built section, flattened for analytics tools.
// Latencies are in seconds.
type SectionRow struct {
	SectionIndex int32    `parquet:"section_index,snappy"`
	SectionTitle string   `parquet:"section_title,snappy"`
	RowIndex     int32    `parquet:"row_index,snappy"`
	RowName      string   `parquet:"row_name,snappy"`
	Run          string   `parquet:"run,snappy"`
	Kind         string   `parquet:"kind,snappy"`
	Protocol     string   `parquet:"protocol,snappy"`
	Build        string   `parquet:"build,snappy"`
	Requests     int64    `parquet:"requests,snappy"`
	ActualQPS    float64  `parquet:"actual_qps,snappy"`
	Min          float64  `parquet:"min,snappy"`
	Avg          float64  `parquet:"avg,snappy"`
	Max          float64  `parquet:"max,snappy"`
	P50          *float64 `parquet:"p50,optional,snappy"`
	P90          *float64 `parquet:"p90,optional,snappy"`
	P99          *float64 `parquet:"p99,optional,snappy"`
	ScaleLatency float64  `parquet:"scale_max_latency,snappy"`
	ScaleCount   int64    `parquet:"scale_max_requests,snappy"`
	ShowAxis     bool     `parquet:"show_axis"`
}

// writeParquet writes a slice of records to a Parquet file.
// The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRenderRunsParquet writes render runs to a Parquet file.
func WriteRenderRunsParquet(data []RenderRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRenderSectionsParquet writes render section summaries to a Parquet file.
func WriteRenderSectionsParquet(data []RenderSection, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSectionRowsParquet writes flattened section rows to a Parquet file.
func WriteSectionRowsParquet(data []SectionRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRenderRunRecords converts schema.RenderRunRecord to RenderRun for Parquet export.
func ConvertRenderRunRecords(records []schema.RenderRunRecord) []RenderRun {
	result := make([]RenderRun, len(records))
	for i, record := range records {
		result[i] = RenderRun{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.DurationMs,
			Source:        record.Source,
			Grouping:      record.Grouping,
			Scaling:       record.Scaling,
			RowOrder:      record.RowOrder,
			ReportCount:   record.ReportCount,
			SectionCount:  record.SectionCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSectionRecords converts schema.SectionRecord to RenderSection for Parquet export.
func ConvertSectionRecords(records []schema.SectionRecord) []RenderSection {
	result := make([]RenderSection, len(records))
	for i, record := range records {
		result[i] = RenderSection{
			RunID:        record.RunID,
			SectionIndex: int32(record.SectionIndex),
			Title:        record.Title,
			RowCount:     int32(record.RowCount),
			MaxLatency:   record.MaxLatency,
			MaxRequests:  record.MaxRequests,
			ShowAxis:     record.ShowAxis,
		}
	}
	return result
}

// percentile returns a pointer to the value of percentile p, or nil when absent.
func percentile(h schema.Histogram, p float64) *float64 {
	if v, ok := h.PercentileValue(p); ok {
		return &v
	}
	return nil
}

// ConvertSections flattens built sections into one record per row, in section order.
func ConvertSections(sections []schema.Section) []SectionRow {
	var result []SectionRow
	for si, section := range sections {
		for ri, row := range section.Rows {
			h := row.Report.Histogram
			labels := row.Report.Labels
			result = append(result, SectionRow{
				SectionIndex: int32(si),
				SectionTitle: section.Title,
				RowIndex:     int32(ri),
				RowName:      row.Name,
				Run:          labels.Run,
				Kind:         string(labels.Kind),
				Protocol:     labels.Protocol,
				Build:        labels.Build,
				Requests:     h.Count,
				ActualQPS:    row.Report.ActualQPS,
				Min:          h.Min,
				Avg:          h.Avg,
				Max:          h.Max,
				P50:          percentile(h, 50),
				P90:          percentile(h, 90),
				P99:          percentile(h, 99),
				ScaleLatency: section.Scale.MaxLatency,
				ScaleCount:   section.Scale.MaxRequests,
				ShowAxis:     section.ShowAxis,
			})
		}
	}
	return result
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/benchgrid/core/algo"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/parquet"
	"github.com/huangsam/benchgrid/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxNameWidth bounds the Name column in table output.
const maxNameWidth = 32

// SectionOutput is the JSON and YAML representation of one section.
type SectionOutput struct {
	Index    int                `json:"index" yaml:"index"`
	Title    string             `json:"title" yaml:"title"`
	ShowAxis bool               `json:"show_axis" yaml:"show_axis"`
	Scale    schema.ScaleDomain `json:"scale" yaml:"scale"`
	Rows     []RowOutput        `json:"rows" yaml:"rows"`
}

// RowOutput is one row of a SectionOutput. Latencies are in milliseconds.
type RowOutput struct {
	Name      string                   `json:"name" yaml:"name"`
	Labels    schema.Labels            `json:"labels" yaml:"labels"`
	Requests  int64                    `json:"requests" yaml:"requests"`
	ActualQPS float64                  `json:"actual_qps" yaml:"actual_qps"`
	MinMs     float64                  `json:"min_ms" yaml:"min_ms"`
	AvgMs     float64                  `json:"avg_ms" yaml:"avg_ms"`
	MaxMs     float64                  `json:"max_ms" yaml:"max_ms"`
	P50Ms     *float64                 `json:"p50_ms,omitempty" yaml:"p50_ms,omitempty"`
	P90Ms     *float64                 `json:"p90_ms,omitempty" yaml:"p90_ms,omitempty"`
	P99Ms     *float64                 `json:"p99_ms,omitempty" yaml:"p99_ms,omitempty"`
	Buckets   []schema.HistogramBucket `json:"buckets,omitempty" yaml:"buckets,omitempty"`
	Offsets   []schema.OffsetBucket    `json:"offsets,omitempty" yaml:"offsets,omitempty"`
}

// WriteSections outputs built sections, dispatching based on the output format configured.
func WriteSections(sections []schema.Section, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ToSectionOutputs(sections, cfg.Detail))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, ToSectionOutputs(sections, cfg.Detail))
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSectionsCSV(w, sections, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := parquet.WriteSectionRowsParquet(parquet.ConvertSections(sections), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSectionTables(w, sections, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// ToSectionOutputs converts sections into their exported form. With detail set,
// every row carries its gap-filled buckets and request offsets.
func ToSectionOutputs(sections []schema.Section, detail bool) []SectionOutput {
	out := make([]SectionOutput, 0, len(sections))
	for i, s := range sections {
		so := SectionOutput{
			Index:    i,
			Title:    s.Title,
			ShowAxis: s.ShowAxis,
			Scale:    s.Scale,
			Rows:     make([]RowOutput, 0, len(s.Rows)),
		}
		for _, row := range s.Rows {
			h := row.Report.Histogram
			ro := RowOutput{
				Name:      row.Name,
				Labels:    row.Report.Labels,
				Requests:  h.Count,
				ActualQPS: row.Report.ActualQPS,
				MinMs:     h.Min * 1000,
				AvgMs:     h.Avg * 1000,
				MaxMs:     h.Max * 1000,
				P50Ms:     percentileMs(h, 50),
				P90Ms:     percentileMs(h, 90),
				P99Ms:     percentileMs(h, 99),
			}
			if detail {
				ro.Buckets = algo.FillGaps(h.Data)
				ro.Offsets = algo.ToOffsets(h)
			}
			so.Rows = append(so.Rows, ro)
		}
		out = append(out, so)
	}
	return out
}

func percentileMs(h schema.Histogram, p float64) *float64 {
	v, ok := h.PercentileValue(p)
	if !ok {
		return nil
	}
	ms := v * 1000
	return &ms
}

// formatPercentile renders an optional millisecond value, or "-" when absent.
func formatPercentile(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// writeSectionTables generates and writes one human-readable table per section.
func writeSectionTables(w io.Writer, sections []schema.Section, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	stripWidth := GetStripWidth(cfg)
	totalRows := 0

	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s (%d rows)\n", section.Title, len(section.Rows)); err != nil {
			return err
		}
		if section.ShowAxis {
			if _, err := fmt.Fprintf(w, "Latency: %s\n", AxisLine(section.Scale.MaxLatency, stripWidth, fmtFloat)); err != nil {
				return err
			}
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Name", "Kind", "Requests", "QPS", "Avg", "P50", "P90", "P99", "Max", "Latency"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		rows := ToSectionOutputs([]schema.Section{section}, false)[0].Rows
		data := make([][]string, 0, len(rows))
		for ri, out := range rows {
			kind := contract.GetPlainKind(out.Labels.Kind)
			if cfg.UseColors {
				kind = contract.GetColorKind(out.Labels.Kind)
			}
			h := section.Rows[ri].Report.Histogram
			data = append(data, []string{
				contract.TruncateName(out.Name, maxNameWidth),
				kind,
				fmt.Sprintf(intFmt, out.Requests),
				fmtFloat(out.ActualQPS),
				fmtFloat(out.AvgMs),
				formatPercentile(out.P50Ms, fmtFloat),
				formatPercentile(out.P90Ms, fmtFloat),
				formatPercentile(out.P99Ms, fmtFloat),
				fmtFloat(out.MaxMs),
				HeatStrip(h, section.Scale.MaxLatency, stripWidth),
			})
		}
		totalRows += len(data)

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Showing %d sections with %d rows (grouping: %s, scale: %s, order: %s)\n",
		len(sections), totalRows, cfg.Grouping, cfg.Scaling, cfg.RowOrder); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Built in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeSectionsCSV writes one CSV line per row, carrying its section metadata.
func writeSectionsCSV(w io.Writer, sections []schema.Section, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"section_index",
		"section_title",
		"section_max_latency_ms",
		"section_max_requests",
		"show_axis",
		"row_index",
		"name",
		"run",
		"kind",
		"protocol",
		"direction",
		"rate",
		"build",
		"requests",
		"qps",
		"avg_ms",
		"p50_ms",
		"p90_ms",
		"p99_ms",
		"max_ms",
	}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, so := range ToSectionOutputs(sections, false) {
			for ri, ro := range so.Rows {
				record := []string{
					strconv.Itoa(so.Index),
					so.Title,
					fmtFloat(so.Scale.MaxLatency * 1000),
					fmt.Sprintf(intFmt, so.Scale.MaxRequests),
					strconv.FormatBool(so.ShowAxis),
					strconv.Itoa(ri),
					ro.Name,
					ro.Labels.Run,
					contract.GetPlainKind(ro.Labels.Kind),
					ro.Labels.Protocol,
					ro.Labels.Direction,
					ro.Labels.Rate,
					ro.Labels.Build,
					fmt.Sprintf(intFmt, ro.Requests),
					fmtFloat(ro.ActualQPS),
					fmtFloat(ro.AvgMs),
					csvPercentile(ro.P50Ms, fmtFloat),
					csvPercentile(ro.P90Ms, fmtFloat),
					csvPercentile(ro.P99Ms, fmtFloat),
					fmtFloat(ro.MaxMs),
				}
				if err := csvWriter.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// csvPercentile leaves absent percentiles empty.
func csvPercentile(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

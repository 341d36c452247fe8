// Package core has the pipeline orchestration behind every benchgrid command.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/benchgrid/core/agg"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/fetch"
	"github.com/huangsam/benchgrid/internal/outwriter"
	"github.com/huangsam/benchgrid/internal/render"
	"github.com/huangsam/benchgrid/schema"
)

// StrategyFor returns the section build strategy configured in cfg.
func StrategyFor(cfg *contract.Config) agg.Strategy {
	return agg.Strategy{
		Grouping:  cfg.Grouping,
		RowOrder:  cfg.RowOrder,
		Scaling:   cfg.Scaling,
		Axis:      cfg.Axis,
		RowHeight: cfg.RowHeight,
	}
}

// sourceFor returns the report source for cfg.Source.
func sourceFor(cfg *contract.Config) contract.ReportSource {
	return fetch.NewSource(cfg.Source, cfg.Timeout)
}

// GetSections loads the reports configured in cfg and builds their sections.
func GetSections(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.Section, error) {
	return buildSections(ctx, cfg, sourceFor(cfg), mgr)
}

// GetScale loads the reports configured in cfg and resolves their scale domain.
// A non-empty group narrows the domain to the reports of that section title.
func GetScale(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, group string) (schema.ScaleDomain, error) {
	reports, err := loadReports(ctx, cfg, sourceFor(cfg), mgr)
	if err != nil {
		return schema.ScaleDomain{}, err
	}
	if group == "" {
		return agg.ResolveScale(reports, cfg.RowHeight), nil
	}

	grouper, err := agg.NewGrouper(cfg.Grouping, cfg.RowOrder)
	if err != nil {
		return schema.ScaleDomain{}, err
	}
	for _, g := range grouper.Partition(reports) {
		if g.Title != group {
			continue
		}
		members := make([]schema.Report, 0, len(g.Rows))
		for _, row := range g.Rows {
			members = append(members, row.Report)
		}
		return agg.ResolveScale(members, cfg.RowHeight), nil
	}
	return schema.ScaleDomain{}, fmt.Errorf("no section titled '%s' when grouping by %s", group, cfg.Grouping)
}

// buildSections runs one tracked build of src.
func buildSections(ctx context.Context, cfg *contract.Config, src contract.ReportSource, mgr contract.CacheManager) ([]schema.Section, error) {
	ctx, tracker := beginRun(ctx, cfg, mgr)

	// --- 1. Load reports (with caching) ---
	reports, err := loadReports(ctx, cfg, src, mgr)
	if err != nil {
		tracker.end(0, 0)
		return nil, err
	}

	// --- 2. Group, order and scale ---
	sections, err := StrategyFor(cfg).Build(reports)
	if err != nil {
		tracker.end(len(reports), 0)
		return nil, err
	}

	// --- 3. Record the build ---
	tracker.recordSections(sections)
	tracker.end(len(reports), len(sections))
	if runID := runIDFromContext(ctx); runID > 0 {
		fmt.Fprintf(os.Stderr, "📝 Recorded render run %d\n", runID)
	}

	return sections, nil
}

// ExecuteSections runs the sections command: build and print every section.
func ExecuteSections(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	sections, err := GetSections(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSections(sections, cfg, time.Since(start))
}

// ExecuteRender runs the render command: build every section and write one SVG per view.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	sections, err := GetSections(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	_, err = writeCharts(sections, cfg.View, cfg.OutputDir)
	return err
}

// writeCharts renders sections for every view into dir and returns the written paths.
func writeCharts(sections []schema.Section, view schema.ChartView, dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var paths []string
	for _, v := range view.Views() {
		chart, err := render.NewChart(v, render.DefaultWidth)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, string(v)+".svg")
		if err := writeChart(chart, sections, path); err != nil {
			return paths, err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %s chart to %s\n", v, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChart(chart *render.Chart, sections []schema.Section, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.Render(file, sections); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

package agg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	genRun   = rapid.SampledFrom([]string{"baseline", "alpha", "beta", "zeta", ""})
	genName  = rapid.SampledFrom([]string{"baseline", "envoy", "nginx", "haproxy", ""})
	genKind  = rapid.SampledFrom([]schema.Kind{schema.BaselineKind, schema.ProxyKind, "other", ""})
	genMode  = rapid.SampledFrom([]schema.GroupingMode{schema.ByRun, schema.ByProfile, schema.ByProtocol, schema.ByBuild})
	genScale = rapid.SampledFrom([]schema.ScalingMode{schema.AbsoluteScale, schema.RelativeScale})
	genOrder = rapid.SampledFrom([]schema.RowOrder{schema.KindThenName, schema.NameOnly})
)

func drawReports(t *rapid.T) []schema.Report {
	n := rapid.IntRange(0, 25).Draw(t, "n")
	reports := make([]schema.Report, 0, n)
	for i := range n {
		r := newReport(genRun.Draw(t, "run"), genName.Draw(t, "name"), genKind.Draw(t, "kind"),
			float64(rapid.IntRange(0, 1000).Draw(t, "max"))/1000, rapid.Int64Range(0, 5000).Draw(t, "count"))
		r.Labels.Protocol = rapid.SampledFrom([]string{"http", "grpc", ""}).Draw(t, "protocol")
		r.ActualQPS = float64(i)
		reports = append(reports, r)
	}
	return reports
}

func TestBuildSectionsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reports := drawReports(t)
		strategy := Strategy{
			Grouping:  genMode.Draw(t, "grouping"),
			RowOrder:  genOrder.Draw(t, "order"),
			Scaling:   genScale.Draw(t, "scaling"),
			RowHeight: rapid.IntRange(-5, 50).Draw(t, "rowHeight"),
		}
		first, err := strategy.Build(reports)
		require.NoError(t, err)
		second, err := strategy.Build(reports)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(first, second))

		// Every report lands in exactly one section.
		total := 0
		for i, s := range first {
			total += len(s.Rows)
			require.NotEmpty(t, s.Rows)
			require.True(t, s.ShowAxis)
			if i > 0 {
				prev := first[i-1].Title
				require.False(t, baselineFirst(s.Title, prev), "%q sorted after %q", s.Title, prev)
				require.NotEqual(t, schema.BaselineName, s.Title)
			}
			less := RowComparator(strategy.RowOrder)
			for j := 1; j < len(s.Rows); j++ {
				require.False(t, less(s.Rows[j], s.Rows[j-1]))
			}
			for _, row := range s.Rows {
				require.LessOrEqual(t, row.Report.Histogram.Max, s.Scale.MaxLatency)
				require.LessOrEqual(t, row.Report.Histogram.Count, s.Scale.MaxRequests)
			}
		}
		require.Equal(t, len(reports), total)

		if strategy.Scaling == schema.AbsoluteScale && len(first) > 0 {
			for _, s := range first {
				require.Equal(t, first[0].Scale, s.Scale)
			}
		}
	})
}

func TestOrderRowsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reports := drawReports(t)
		rows := make([]schema.Row, 0, len(reports))
		for _, r := range reports {
			rows = append(rows, schema.Row{Name: r.Labels.Name, Report: r})
		}
		less := RowComparator(genOrder.Draw(t, "order"))
		OrderRows(rows, less)

		// Ties keep input order, tracked through ActualQPS.
		for j := 1; j < len(rows); j++ {
			a, b := rows[j-1], rows[j]
			if !less(a, b) && !less(b, a) {
				require.Less(t, a.Report.ActualQPS, b.Report.ActualQPS)
			}
		}

		again := make([]schema.Row, len(rows))
		copy(again, rows)
		OrderRows(again, less)
		require.Empty(t, cmp.Diff(rows, again))
	})
}

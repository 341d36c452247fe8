package agg

import (
	"testing"

	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/assert"
)

func titles(partitions []Partition) []string {
	out := make([]string, 0, len(partitions))
	for _, p := range partitions {
		out = append(out, p.Key)
	}
	return out
}

func rowNames(rows []schema.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestOrderPartitionsBaselineFirst(t *testing.T) {
	partitions := []Partition{{Key: "zeta"}, {Key: "baseline"}, {Key: "alpha"}}
	OrderPartitions(partitions)
	assert.Equal(t, []string{"baseline", "alpha", "zeta"}, titles(partitions))
}

func TestOrderPartitionsStableOnTies(t *testing.T) {
	first := Partition{Key: "same", Reports: []schema.Report{newReport("same", "1", "", 0, 0)}}
	second := Partition{Key: "same", Reports: []schema.Report{newReport("same", "2", "", 0, 0)}}
	partitions := []Partition{first, {Key: "a"}, second}
	OrderPartitions(partitions)
	assert.Equal(t, []string{"a", "same", "same"}, titles(partitions))
	assert.Equal(t, "1", partitions[1].Reports[0].Labels.Name)
	assert.Equal(t, "2", partitions[2].Reports[0].Labels.Name)
}

func TestByKindThenName(t *testing.T) {
	row := func(name string, kind schema.Kind) schema.Row {
		return schema.Row{Name: name, Report: newReport("r", name, kind, 0, 0)}
	}

	tests := []struct {
		name     string
		rows     []schema.Row
		expected []string
	}{
		{
			name:     "baseline name first within a kind",
			rows:     []schema.Row{row("b", schema.ProxyKind), row("baseline", schema.ProxyKind), row("a", schema.ProxyKind)},
			expected: []string{"baseline", "a", "b"},
		},
		{
			name:     "baseline kind before proxy kind",
			rows:     []schema.Row{row("a", schema.ProxyKind), row("z", schema.BaselineKind)},
			expected: []string{"z", "a"},
		},
		{
			name:     "unknown kinds sort last",
			rows:     []schema.Row{row("m", "canary"), row("n", ""), row("o", schema.ProxyKind), row("p", "canary")},
			expected: []string{"o", "n", "m", "p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			OrderRows(tt.rows, ByKindThenName)
			assert.Equal(t, tt.expected, rowNames(tt.rows))
		})
	}
}

func TestByName(t *testing.T) {
	rows := []schema.Row{
		{Name: "b", Report: newReport("r", "b", schema.BaselineKind, 0, 0)},
		{Name: "baseline", Report: newReport("r", "baseline", schema.ProxyKind, 0, 0)},
		{Name: "a", Report: newReport("r", "a", schema.ProxyKind, 0, 0)},
	}
	OrderRows(rows, ByName)
	assert.Equal(t, []string{"baseline", "a", "b"}, rowNames(rows))
}

func TestRowComparator(t *testing.T) {
	a := schema.Row{Name: "b", Report: newReport("r", "b", schema.BaselineKind, 0, 0)}
	b := schema.Row{Name: "a", Report: newReport("r", "a", schema.ProxyKind, 0, 0)}
	assert.True(t, RowComparator(schema.KindThenName)(a, b))
	assert.False(t, RowComparator(schema.NameOnly)(a, b))
}

func TestDuplicateRowsRetained(t *testing.T) {
	rows := []schema.Row{
		{Name: "dup", Report: newReport("r", "dup", schema.ProxyKind, 1, 1)},
		{Name: "dup", Report: newReport("r", "dup", schema.ProxyKind, 2, 2)},
	}
	OrderRows(rows, ByKindThenName)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Report.Histogram.Max)
	assert.Equal(t, 2.0, rows[1].Report.Histogram.Max)
}

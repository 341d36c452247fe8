package agg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/benchgrid/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureReports() []schema.Report {
	return []schema.Report{
		newReport("zeta", "envoy", schema.ProxyKind, 0.020, 900),
		newReport("baseline", "direct", schema.BaselineKind, 0.004, 1000),
		newReport("alpha", "nginx", schema.ProxyKind, 0.100, 800),
		newReport("alpha", "baseline", schema.BaselineKind, 0.003, 1000),
		newReport("zeta", "baseline", schema.BaselineKind, 0.002, 1000),
	}
}

func TestBuildSectionsEmpty(t *testing.T) {
	g, err := NewGrouper(schema.ByRun, schema.KindThenName)
	require.NoError(t, err)
	for mode := range schema.ValidScalingModes {
		s, err := NewScaler(mode, 20, schema.EveryAxis)
		require.NoError(t, err)

		sections := BuildSections(nil, g, s)
		assert.NotNil(t, sections)
		assert.Empty(t, sections)

		sections = BuildSections([]schema.Report{}, g, s)
		assert.NotNil(t, sections)
		assert.Empty(t, sections)
	}
}

func TestBuildSectionsByRun(t *testing.T) {
	sections, err := Strategy{
		Grouping: schema.ByRun, RowOrder: schema.KindThenName, Scaling: schema.AbsoluteScale, RowHeight: 20,
	}.Build(fixtureReports())
	require.NoError(t, err)
	require.Len(t, sections, 3)

	var got []string
	for _, s := range sections {
		got = append(got, s.Title)
	}
	assert.Equal(t, []string{"baseline", "alpha", "zeta"}, got)
	assert.Equal(t, []string{"baseline", "nginx"}, rowNames(sections[1].Rows))
	assert.Equal(t, []string{"baseline", "envoy"}, rowNames(sections[2].Rows))

	for _, s := range sections {
		assert.Equal(t, 0.100, s.Scale.MaxLatency)
		assert.Equal(t, int64(1000), s.Scale.MaxRequests)
		assert.True(t, s.ShowAxis)
	}
}

func TestBuildSectionsRelative(t *testing.T) {
	sections, err := Strategy{
		Grouping: schema.ByRun, RowOrder: schema.NameOnly, Scaling: schema.RelativeScale, RowHeight: 20,
	}.Build(fixtureReports())
	require.NoError(t, err)
	require.Len(t, sections, 3)

	assert.Equal(t, 0.004, sections[0].Scale.MaxLatency)
	assert.Equal(t, 0.100, sections[1].Scale.MaxLatency)
	assert.Equal(t, 0.020, sections[2].Scale.MaxLatency)
	// zeta's baseline row carries more requests than its proxy row
	assert.Equal(t, int64(1000), sections[2].Scale.MaxRequests)
}

func TestBuildSectionsByProfile(t *testing.T) {
	sections, err := Strategy{
		Grouping: schema.ByProfile, RowOrder: schema.NameOnly, Scaling: schema.AbsoluteScale, Axis: schema.FirstAxis,
	}.Build(fixtureReports())
	require.NoError(t, err)

	var got []string
	for _, s := range sections {
		got = append(got, s.Title)
	}
	assert.Equal(t, []string{"baseline", "direct", "envoy", "nginx"}, got)
	assert.Equal(t, []string{"alpha", "zeta"}, rowNames(sections[0].Rows))
	assert.True(t, sections[0].ShowAxis)
	assert.False(t, sections[1].ShowAxis)
	assert.Equal(t, schema.DefaultRowHeight, sections[0].Scale.RowHeight)
}

func TestBuildSectionsInvalidStrategy(t *testing.T) {
	_, err := Strategy{Grouping: "nope", RowOrder: schema.NameOnly, Scaling: schema.AbsoluteScale}.Build(nil)
	assert.Error(t, err)
	_, err = Strategy{Grouping: schema.ByRun, RowOrder: schema.NameOnly, Scaling: "nope"}.Build(nil)
	assert.Error(t, err)
}

func TestBuildSectionsDeterministic(t *testing.T) {
	strategy := Strategy{Grouping: schema.ByRun, RowOrder: schema.KindThenName, Scaling: schema.RelativeScale}
	first, err := strategy.Build(fixtureReports())
	require.NoError(t, err)
	second, err := strategy.Build(fixtureReports())
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("BuildSections not deterministic (-first +second):\n%s", diff)
	}
}

func TestBuildSectionsDoesNotMutateInput(t *testing.T) {
	reports := fixtureReports()
	before := fixtureReports()
	_, err := Strategy{Grouping: schema.ByRun, RowOrder: schema.KindThenName, Scaling: schema.AbsoluteScale}.Build(reports)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, reports))
}

func TestStrategyOverride(t *testing.T) {
	base := Strategy{Grouping: schema.ByRun, RowOrder: schema.KindThenName, Scaling: schema.AbsoluteScale, Axis: schema.EveryAxis, RowHeight: 20}

	tests := []struct {
		name    string
		values  map[string]string
		want    Strategy
		wantErr string
	}{
		{name: "no overrides", values: nil, want: base},
		{
			name:   "case-insensitive overrides",
			values: map[string]string{"group_by": "PROFILE", "scale": "relative", "row_order": "Name", "axis": "first"},
			want:   Strategy{Grouping: schema.ByProfile, RowOrder: schema.NameOnly, Scaling: schema.RelativeScale, Axis: schema.FirstAxis, RowHeight: 20},
		},
		{name: "invalid group_by", values: map[string]string{"group_by": "weekday"}, wantErr: "invalid group_by 'weekday'"},
		{name: "invalid scale", values: map[string]string{"scale": "log"}, wantErr: "invalid scale 'log'"},
		{name: "invalid row_order", values: map[string]string{"row_order": "kind"}, wantErr: "invalid row_order 'kind'"},
		{name: "invalid axis", values: map[string]string{"axis": "last"}, wantErr: "invalid axis 'last'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Override(func(key string) string { return tt.values[key] })
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package agg

import (
	"fmt"
	"strings"

	"github.com/huangsam/benchgrid/schema"
)

// BuildSections groups, orders and scales reports into render-ready
// sections. The returned order is final and is never nil.
func BuildSections(reports []schema.Report, g Grouper, s Scaler) []schema.Section {
	if len(reports) == 0 {
		return []schema.Section{}
	}
	groups := g.Partition(reports)
	scales := s.Resolve(groups)

	sections := make([]schema.Section, 0, len(groups))
	for i, grp := range groups {
		sections = append(sections, schema.Section{
			Title:    grp.Title,
			Rows:     grp.Rows,
			Scale:    scales[i].Domain,
			ShowAxis: scales[i].ShowAxis,
		})
	}
	return sections
}

// Strategy bundles the runtime choices that shape a section build.
type Strategy struct {
	Grouping  schema.GroupingMode
	RowOrder  schema.RowOrder
	Scaling   schema.ScalingMode
	Axis      schema.AxisPolicy
	RowHeight int
}

// Build resolves the strategy into a grouper and scaler and runs BuildSections.
func (st Strategy) Build(reports []schema.Report) ([]schema.Section, error) {
	g, err := NewGrouper(st.Grouping, st.RowOrder)
	if err != nil {
		return nil, err
	}
	s, err := NewScaler(st.Scaling, st.RowHeight, st.Axis)
	if err != nil {
		return nil, err
	}
	return BuildSections(reports, g, s), nil
}

// Override returns st with the group_by, scale, row_order and axis values
// reported by lookup applied. Empty values keep the current choice.
func (st Strategy) Override(lookup func(key string) string) (Strategy, error) {
	if v := lookup("group_by"); v != "" {
		mode := schema.GroupingMode(strings.ToLower(v))
		if _, ok := schema.ValidGroupingModes[mode]; !ok {
			return st, fmt.Errorf("invalid group_by '%s'", v)
		}
		st.Grouping = mode
	}
	if v := lookup("scale"); v != "" {
		mode := schema.ScalingMode(strings.ToLower(v))
		if _, ok := schema.ValidScalingModes[mode]; !ok {
			return st, fmt.Errorf("invalid scale '%s'", v)
		}
		st.Scaling = mode
	}
	if v := lookup("row_order"); v != "" {
		order := schema.RowOrder(strings.ToLower(v))
		if _, ok := schema.ValidRowOrders[order]; !ok {
			return st, fmt.Errorf("invalid row_order '%s'", v)
		}
		st.RowOrder = order
	}
	if v := lookup("axis"); v != "" {
		axis := schema.AxisPolicy(strings.ToLower(v))
		if _, ok := schema.ValidAxisPolicies[axis]; !ok {
			return st, fmt.Errorf("invalid axis '%s'", v)
		}
		st.Axis = axis
	}
	return st, nil
}

package agg

import (
	"fmt"

	"github.com/huangsam/benchgrid/schema"
)

// Group is an ordered partition ready for scaling.
type Group struct {
	Title string
	Rows  []schema.Row
}

// Grouper partitions reports into ordered groups.
type Grouper interface {
	Mode() schema.GroupingMode
	Partition(reports []schema.Report) []Group
}

// KeyGrouper groups with a key projection and orders rows with a comparator.
type KeyGrouper struct {
	mode schema.GroupingMode
	key  KeyFunc
	name NameFunc
	less RowLess
}

var _ Grouper = (*KeyGrouper)(nil)

// NewGrouper builds the grouper for mode using the given row order.
func NewGrouper(mode schema.GroupingMode, order schema.RowOrder) (*KeyGrouper, error) {
	fns, ok := keyFuncs[mode]
	if !ok {
		return nil, fmt.Errorf("unknown grouping mode '%s'", mode)
	}
	if _, ok := schema.ValidRowOrders[order]; !ok {
		return nil, fmt.Errorf("unknown row order '%s'", order)
	}
	return &KeyGrouper{mode: mode, key: fns.key, name: fns.name, less: RowComparator(order)}, nil
}

// NewKeyGrouper builds a grouper from arbitrary projections.
func NewKeyGrouper(mode schema.GroupingMode, key KeyFunc, name NameFunc, less RowLess) *KeyGrouper {
	return &KeyGrouper{mode: mode, key: key, name: name, less: less}
}

// Mode returns the grouping mode.
func (g *KeyGrouper) Mode() schema.GroupingMode { return g.mode }

// Partition groups and orders reports.
func (g *KeyGrouper) Partition(reports []schema.Report) []Group {
	partitions := GroupBy(reports, g.key)
	OrderPartitions(partitions)

	groups := make([]Group, 0, len(partitions))
	for _, p := range partitions {
		rows := make([]schema.Row, 0, len(p.Reports))
		for _, r := range p.Reports {
			rows = append(rows, schema.Row{Name: g.name(r), Report: r})
		}
		OrderRows(rows, g.less)
		groups = append(groups, Group{Title: p.Key, Rows: rows})
	}
	return groups
}

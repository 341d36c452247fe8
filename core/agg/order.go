package agg

import (
	"sort"

	"github.com/huangsam/benchgrid/schema"
)

// RowLess reports whether row a sorts before row b.
type RowLess func(a, b schema.Row) bool

// baselineFirst compares names lexicographically, except that the
// BaselineName sentinel precedes everything else.
func baselineFirst(a, b string) bool {
	if a == b {
		return false
	}
	if a == schema.BaselineName {
		return true
	}
	if b == schema.BaselineName {
		return false
	}
	return a < b
}

// kindRank places baseline before proxy before everything else.
func kindRank(k schema.Kind) int {
	switch k {
	case schema.BaselineKind:
		return 0
	case schema.ProxyKind:
		return 1
	default:
		return 2
	}
}

// ByKindThenName orders rows by kind and then by name.
func ByKindThenName(a, b schema.Row) bool {
	ka, kb := a.Report.Labels.Kind, b.Report.Labels.Kind
	if ra, rb := kindRank(ka), kindRank(kb); ra != rb {
		return ra < rb
	}
	if ka != kb {
		return ka < kb
	}
	return baselineFirst(a.Name, b.Name)
}

// ByName orders rows by name.
func ByName(a, b schema.Row) bool {
	return baselineFirst(a.Name, b.Name)
}

// RowComparator returns the comparator for the given row order.
func RowComparator(order schema.RowOrder) RowLess {
	if order == schema.NameOnly {
		return ByName
	}
	return ByKindThenName
}

// OrderPartitions sorts partitions by title with baseline first. Equal
// titles keep their relative order.
func OrderPartitions(partitions []Partition) {
	sort.SliceStable(partitions, func(i, j int) bool {
		return baselineFirst(partitions[i].Key, partitions[j].Key)
	})
}

// OrderRows sorts rows in place with less. Equal rows keep their relative order.
func OrderRows(rows []schema.Row, less RowLess) {
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
}

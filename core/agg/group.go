// Package agg has grouping, ordering and scaling logic for benchmark reports.
package agg

import (
	"strings"

	"github.com/huangsam/benchgrid/schema"
)

// KeyFunc projects a report onto the title of the partition it belongs to.
type KeyFunc func(r schema.Report) string

// NameFunc projects a report onto its row name within a partition.
type NameFunc func(r schema.Report) string

// Partition holds the reports sharing one key, in input order.
type Partition struct {
	Key     string
	Reports []schema.Report
}

// GroupBy partitions reports by key. Partitions appear in the order their
// key was first seen and every report lands in exactly one of them.
func GroupBy(reports []schema.Report, key KeyFunc) []Partition {
	partitions := make([]Partition, 0)
	index := make(map[string]int)
	for _, r := range reports {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(partitions)
			index[k] = i
			partitions = append(partitions, Partition{Key: k})
		}
		partitions[i].Reports = append(partitions[i].Reports, r)
	}
	return partitions
}

// RunKey groups reports by test run.
func RunKey(r schema.Report) string { return r.Labels.Run }

// ProfileKey groups reports by workload profile.
func ProfileKey(r schema.Report) string { return r.Labels.Name }

// ProtocolKey groups reports by the protocol, direction and rate tuple.
// Unset parts are skipped.
func ProtocolKey(r schema.Report) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Labels.Protocol, r.Labels.Direction, r.Labels.Rate} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// BuildKey groups reports by build identifier.
func BuildKey(r schema.Report) string { return r.Labels.Build }

// profileAndRun names a row "profile (run)", or whichever of the two is set.
func profileAndRun(r schema.Report) string {
	name, run := r.Labels.Name, r.Labels.Run
	switch {
	case name != "" && run != "":
		return name + " (" + run + ")"
	case name != "":
		return name
	default:
		return run
	}
}

// keyFuncs maps grouping modes to their key and row name projections.
var keyFuncs = map[schema.GroupingMode]struct {
	key  KeyFunc
	name NameFunc
}{
	schema.ByRun:      {key: RunKey, name: ProfileKey},
	schema.ByProfile:  {key: ProfileKey, name: RunKey},
	schema.ByProtocol: {key: ProtocolKey, name: profileAndRun},
	schema.ByBuild:    {key: BuildKey, name: profileAndRun},
}

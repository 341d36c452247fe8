package agg

import "github.com/huangsam/benchgrid/schema"

// newReport builds a report for tests with the given labels and histogram maxima.
func newReport(run, name string, kind schema.Kind, maxLatency float64, count int64) schema.Report {
	return schema.Report{
		Labels: schema.Labels{Run: run, Name: name, Kind: kind},
		Histogram: schema.Histogram{
			Count: count,
			Max:   maxLatency,
			Data:  []schema.HistogramBucket{{Start: 0, End: maxLatency, Count: count}},
		},
	}
}

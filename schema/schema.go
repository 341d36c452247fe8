// Package schema has configs, models and constants for all parts of benchgrid.
package schema

import "time"

// Percentile is a single latency percentile as reported by Fortio.
type Percentile struct {
	Percentile float64 `json:"Percentile" yaml:"percentile"` // e.g. 50, 99, 99.9
	Value      float64 `json:"Value" yaml:"value"`           // Latency in seconds
}

// HistogramBucket is one half-open latency interval [Start, End).
type HistogramBucket struct {
	Start   float64 `json:"Start" yaml:"start"`     // Seconds, inclusive
	End     float64 `json:"End" yaml:"end"`         // Seconds, exclusive
	Percent float64 `json:"Percent" yaml:"percent"` // Cumulative percent, informational
	Count   int64   `json:"Count" yaml:"count"`     // Requests observed in the interval
}

// Histogram holds the aggregate latency statistics of one benchmark run.
// Max is the authoritative upper latency bound and may exceed the last bucket's End.
type Histogram struct {
	Count       int64             `json:"Count" yaml:"count"`
	Min         float64           `json:"Min" yaml:"min"`
	Max         float64           `json:"Max" yaml:"max"`
	Sum         float64           `json:"Sum" yaml:"sum"`
	Avg         float64           `json:"Avg" yaml:"avg"`
	StdDev      float64           `json:"StdDev" yaml:"stddev"`
	Data        []HistogramBucket `json:"Data" yaml:"data"`
	Percentiles []Percentile      `json:"Percentiles" yaml:"percentiles"`
}

// RawReport is a Fortio result record exactly as it arrives on the wire.
type RawReport struct {
	Labels            string    `json:"Labels"`         // JSON-encoded label object
	ActualQPS         float64   `json:"ActualQPS"`      // Achieved requests per second
	ActualDuration    float64   `json:"ActualDuration"` // Run duration as reported upstream
	DurationHistogram Histogram `json:"DurationHistogram"`
}

// Labels is the categorical metadata decoded from a report's label payload.
type Labels struct {
	Run       string            `json:"run,omitempty" yaml:"run,omitempty"`
	Kind      Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Protocol  string            `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Direction string            `json:"direction,omitempty" yaml:"direction,omitempty"`
	Rate      string            `json:"rate,omitempty" yaml:"rate,omitempty"`
	Build     string            `json:"build,omitempty" yaml:"build,omitempty"`
	All       map[string]string `json:"all,omitempty" yaml:"all,omitempty"` // Every decoded key, stringified
}

// Report is a normalized benchmark report. It is immutable once ingested.
type Report struct {
	Labels         Labels    `json:"labels" yaml:"labels"`
	ActualQPS      float64   `json:"actual_qps" yaml:"actual_qps"`
	ActualDuration float64   `json:"actual_duration" yaml:"actual_duration"`
	Histogram      Histogram `json:"histogram" yaml:"histogram"`
}

// Row is one labeled line within a section.
type Row struct {
	Name   string `json:"name" yaml:"name"`
	Report Report `json:"report" yaml:"report"`
}

// ScaleDomain holds the numeric axis bounds used to normalize a section's charts.
// ShowAxis is false when the domain came from an empty report set; consumers must
// not render an axis or divide by the zero maxima in that case.
type ScaleDomain struct {
	MaxLatency  float64 `json:"max_latency" yaml:"max_latency"`   // Seconds
	MaxRequests int64   `json:"max_requests" yaml:"max_requests"` // Requests
	RowHeight   int     `json:"row_height" yaml:"row_height"`     // Pixels per row
	ShowAxis    bool    `json:"show_axis" yaml:"show_axis"`
}

// Section is a titled group of rows rendered together with one scale domain.
type Section struct {
	Title    string      `json:"title" yaml:"title"`
	Rows     []Row       `json:"rows" yaml:"rows"`
	Scale    ScaleDomain `json:"scale" yaml:"scale"`
	ShowAxis bool        `json:"show_axis" yaml:"show_axis"`
}

// OffsetBucket pairs a bucket with the number of requests faster than it.
type OffsetBucket struct {
	PriorCount int64           `json:"prior_count" yaml:"prior_count"`
	Bucket     HistogramBucket `json:"bucket" yaml:"bucket"`
}

// Snapshot is an immutable, sequence-numbered report collection.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	Reports   []Report  `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PercentileValue returns the value recorded for percentile p, if present.
func (h Histogram) PercentileValue(p float64) (float64, bool) {
	for _, pc := range h.Percentiles {
		if pc.Percentile == p {
			return pc.Value, true
		}
	}
	return 0, false
}

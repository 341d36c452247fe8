package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "benchgrid"

// Fetch results recorded on the fetch counter.
const (
	FetchOK    = "ok"
	FetchError = "error"
)

// Metrics holds the prometheus collectors for serve mode.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	StaleDiscards prometheus.Counter
	SectionsBuilt prometheus.Counter
	BuildDuration prometheus.Histogram
	registry      *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_total",
			Help:      "Report collection fetches by result.",
		}, []string{"result"}),
		StaleDiscards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_discards_total",
			Help:      "Fetch resolutions discarded because a newer snapshot was already committed.",
		}),
		SectionsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sections_built_total",
			Help:      "Sections produced by uncached builds.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building sections from a snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.FetchTotal, m.StaleDiscards, m.SectionsBuilt, m.BuildDuration)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFetch counts one fetch with the given result.
func (m *Metrics) ObserveFetch(result string) {
	m.FetchTotal.WithLabelValues(result).Inc()
}

// ObserveStale counts one discarded out-of-order fetch.
func (m *Metrics) ObserveStale() {
	m.StaleDiscards.Inc()
}

// ObserveBuild records an uncached build.
func (m *Metrics) ObserveBuild(sections int, elapsed time.Duration) {
	m.SectionsBuilt.Add(float64(sections))
	m.BuildDuration.Observe(elapsed.Seconds())
}

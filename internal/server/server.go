// Package server exposes built sections and charts over HTTP for serve mode.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/benchgrid/core/agg"
	"github.com/huangsam/benchgrid/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMemoSize is the number of section builds kept in memory.
const DefaultMemoSize = 64

// SnapshotSource provides the committed report snapshot.
type SnapshotSource interface {
	Current() schema.Snapshot
}

// Options configures a Server.
type Options struct {
	Strategy   agg.Strategy // defaults for requests that omit query parameters
	ChartWidth int
	MemoSize   int
	Logger     hclog.Logger
	Metrics    *Metrics
}

// memoKey identifies a section build. Builds are deterministic, so equal keys
// always produce equal sections.
type memoKey struct {
	Seq      uint64
	Strategy agg.Strategy
}

// Server serves the dashboard API.
type Server struct {
	snapshots SnapshotSource
	defaults  agg.Strategy
	width     int
	memo      *lru.Cache[memoKey, []schema.Section]
	logger    hclog.Logger
	metrics   *Metrics
}

// New creates a server reading from snapshots.
func New(snapshots SnapshotSource, opts Options) (*Server, error) {
	size := opts.MemoSize
	if size <= 0 {
		size = DefaultMemoSize
	}
	memo, err := lru.New[memoKey, []schema.Section](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create sections memo: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{
		snapshots: snapshots,
		defaults:  opts.Strategy,
		width:     opts.ChartWidth,
		memo:      memo,
		logger:    logger.Named("server"),
		metrics:   metrics,
	}, nil
}

// Metrics returns the collectors the server reports on.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/api/sections", s.handleSections)
	r.Get("/charts/{file}", s.handleChart)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	return r
}

// Sections builds or recalls the sections of snap under strategy.
func (s *Server) Sections(snap schema.Snapshot, strategy agg.Strategy) ([]schema.Section, error) {
	key := memoKey{Seq: snap.Seq, Strategy: strategy}
	if sections, ok := s.memo.Get(key); ok {
		return sections, nil
	}

	start := time.Now()
	sections, err := strategy.Build(snap.Reports)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveBuild(len(sections), time.Since(start))
	s.memo.Add(key, sections)
	return sections, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

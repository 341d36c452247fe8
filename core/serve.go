package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/server"
	"github.com/huangsam/benchgrid/schema"
	"golang.org/x/sync/errgroup"
)

const (
	maxInflightFetches = 2
	shutdownTimeout    = 10 * time.Second
)

// NewServeLogger returns the levelled logger used by serve mode.
func NewServeLogger(cfg *contract.Config) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "benchgrid",
		Level:      cfg.LogLevel,
		JSONFormat: cfg.LogJSON,
		Output:     os.Stderr,
	})
}

// ExecuteServe runs the dashboard until ctx is canceled, refetching the
// source every cfg.Interval.
func ExecuteServe(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return serve(ctx, cfg, sourceFor(cfg), mgr, ln, NewServeLogger(cfg))
}

// serve runs the HTTP server, the refresh loop and graceful shutdown in one errgroup.
func serve(ctx context.Context, cfg *contract.Config, src contract.ReportSource, mgr contract.CacheManager, ln net.Listener, logger hclog.Logger) error {
	holder := NewSnapshotHolder()
	metrics := server.NewMetrics()
	srv, err := server.New(holder, server.Options{
		Strategy: StrategyFor(cfg),
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	r := &refresher{cfg: cfg, src: src, mgr: mgr, holder: holder, srv: srv, logger: logger.Named("refresh")}
	r.refresh(ctx, false)

	httpServer := &http.Server{Handler: srv.Router(), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving dashboard", "addr", ln.Addr().String(), "source", src.ID())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return r.run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// refresher periodically fetches the source into the snapshot holder.
type refresher struct {
	cfg    *contract.Config
	src    contract.ReportSource
	mgr    contract.CacheManager
	holder *SnapshotHolder
	srv    *server.Server
	logger hclog.Logger
}

// run refreshes on every tick until ctx is done. At most maxInflightFetches
// fetches run at once, and ticks arriving while saturated are skipped.
func (r *refresher) run(ctx context.Context) error {
	interval := r.cfg.Interval
	if interval <= 0 {
		interval = contract.DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var fetches errgroup.Group
	fetches.SetLimit(maxInflightFetches)
	for {
		select {
		case <-ctx.Done():
			return fetches.Wait()
		case <-ticker.C:
			if !fetches.TryGo(func() error {
				r.refresh(ctx, true)
				return nil
			}) {
				r.logger.Debug("skipping refresh while fetches are in flight")
			}
		}
	}
}

// refresh fetches once and commits the result. Periodic refreshes bypass the
// snapshot cache so that remote sources are actually refetched.
func (r *refresher) refresh(ctx context.Context, bypass bool) {
	seq := r.holder.Begin()
	if bypass {
		ctx = withBypassCache(ctx)
	}
	reports, err := loadReports(ctx, r.cfg, r.src, r.mgr)
	if err != nil {
		r.srv.Metrics().ObserveFetch(server.FetchError)
		r.logger.Error("fetch failed", "seq", seq, "error", err)
		return
	}
	r.srv.Metrics().ObserveFetch(server.FetchOK)
	r.commit(ctx, seq, reports)
}

// commit installs a fetch result unless a newer one already landed, then
// builds and records the default sections of the new snapshot.
func (r *refresher) commit(ctx context.Context, seq uint64, reports []schema.Report) bool {
	if !r.holder.Commit(seq, reports, time.Now()) {
		r.srv.Metrics().ObserveStale()
		r.logger.Warn("discarding stale fetch", "seq", seq, "current", r.holder.Current().Seq)
		return false
	}
	snap := r.holder.Current()
	r.logger.Info("snapshot committed", "seq", snap.Seq, "reports", len(snap.Reports))

	_, tracker := beginRun(ctx, r.cfg, r.mgr)
	sections, err := r.srv.Sections(snap, StrategyFor(r.cfg))
	if err != nil {
		r.logger.Error("section build failed", "seq", snap.Seq, "error", err)
		return true
	}
	tracker.recordSections(sections)
	tracker.end(len(snap.Reports), len(sections))
	return true
}

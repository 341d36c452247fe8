package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/benchgrid/core"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve sections and charts over HTTP, refetching periodically.",
	Long: `Start an HTTP dashboard backed by a periodically refetched report collection.

Endpoints:
  GET /healthz                 liveness
  GET /api/snapshot            sequence number and fetch time of the live snapshot
  GET /api/sections            sections as JSON (group_by, scale, row_order, axis, row_height, detail)
  GET /charts/{view}.svg       SVG chart of the live snapshot
  GET /metrics                 Prometheus metrics

A fetch that resolves after a newer one has been committed is discarded.

Examples:
  # Serve a remote collection, refetching every minute
  benchgrid serve https://bench.example.com/reports.json --interval 1m

  # Debug logging as JSON on another port
  benchgrid serve reports.json --addr :9090 --log-level debug --log-json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return core.ExecuteServe(ctx, cfg, cacheManager)
	},
}

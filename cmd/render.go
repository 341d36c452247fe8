package cmd

import (
	"github.com/huangsam/benchgrid/core"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/spf13/cobra"
)

// renderCmd writes the SVG charts of a report collection.
var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Render sections as SVG latency charts.",
	Long: `Build every section and draw it as an SVG chart.

Two views are available:
  requests-by-latency  one heatmap row per report, shaded by bucket density
  latency-by-requests  one stacked bar per report, one span per bucket

Each view is written to <output-dir>/<view>.svg.

Examples:
  # Write both charts to the current directory
  benchgrid render reports.json

  # Only the heatmap, grouped by protocol
  benchgrid render reports.json --view requests-by-latency --group-by protocol --output-dir charts`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render charts", err)
		}
	},
}

package cmd

import (
	"github.com/huangsam/benchgrid/core"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/spf13/cobra"
)

// sectionsCmd builds and prints every section of a report collection.
var sectionsCmd = &cobra.Command{
	Use:   "sections [source]",
	Short: "Group and scale benchmark reports into comparable sections.",
	Long: `Load a Fortio report collection and build the sections that share a scale.

Reports are partitioned by one label (run, profile, protocol or build), rows are
ordered with baselines first, and each section gets a scale domain covering its
slowest report and its largest request count.

The source is a local file path or an http(s) URL that serves a JSON array of
Fortio results. It defaults to ./reports.json.

Examples:
  # Print one section per benchmark run
  benchgrid sections reports.json

  # Compare one proxy profile across runs, each on its own scale
  benchgrid sections reports.json --group-by profile --scale relative

  # Fetch from a dashboard and export the section structure
  benchgrid sections https://bench.example.com/reports.json --output json --detail

  # Export one record per row for analytics
  benchgrid sections --output parquet --output-file rows.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSections(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build sections", err)
		}
	},
}

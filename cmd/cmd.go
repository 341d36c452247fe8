// Package cmd defines the command-line interface for benchgrid.
package cmd

import (
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("group-by", string(schema.ByRun), "Label that partitions reports into sections: run or profile or protocol or build")
	rootCmd.PersistentFlags().String("scale", string(schema.AbsoluteScale), "Scale domain sharing: absolute or relative")
	rootCmd.PersistentFlags().String("row-order", string(schema.KindThenName), "Row order within a section: kind-name or name")
	rootCmd.PersistentFlags().String("axis", string(schema.EveryAxis), "Sections that show their axis under absolute scaling: every or first")
	rootCmd.PersistentFlags().Int("row-height", schema.DefaultRowHeight, "Pixel height of one chart row")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Include gap-filled buckets and request offsets in json/yaml output")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout.String(), "Timeout for fetching remote report collections")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for mysql/postgresql/redis (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long a cached report snapshot stays fresh")
	rootCmd.PersistentFlags().String("history-backend", "", "Render history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for render history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of renderCmd to Viper
	renderCmd.Flags().String("view", string(schema.BothViews), "Chart view: requests-by-latency or latency-by-requests or both")
	renderCmd.Flags().String("output-dir", ".", "Directory to write SVG charts to")
	if err := viper.BindPFlags(renderCmd.Flags()); err != nil {
		contract.LogFatal("Error binding render flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address for the HTTP dashboard to listen on")
	serveCmd.Flags().String("interval", contract.DefaultInterval.String(), "How often to refetch the report collection")
	serveCmd.Flags().String("log-level", "info", "Log level: trace or debug or info or warn or error")
	serveCmd.Flags().Bool("log-json", false, "Emit logs as JSON")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 for latest, 0 to roll back everything)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}

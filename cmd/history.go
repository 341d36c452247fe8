package cmd

import (
	"fmt"
	"strings"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/iocache"
	"github.com/huangsam/benchgrid/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromViper resolves and validates the history backend settings.
// An empty backend means history is disabled.
func historyBackendFromViper() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("history-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	connStr := viper.GetString("history-db-connect")

	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no snapshot cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup resolves the history backend without opening any store,
// so migrations can run against a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyCmd focused on render history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage render history tracking and exports",
	Long: `Manage the history of section builds.

When --history-backend is set, every sections, render or serve build is recorded:
- Run metadata (source, grouping, scaling, row order, timing, configuration)
- One record per section (title, row count, scale domain, axis visibility)

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and sections to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Record builds to the default SQLite file
  benchgrid sections reports.json --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  benchgrid history export --history-backend sqlite --output-file history.parquet`,
}

// historyClearCmd clears the render history.
var historyClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all render history",
	Long:    `Delete every recorded run and section. For SQLite this deletes the database file.`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before its file is removed
		iocache.CloseCaching()
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows render history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display render history statistics",
	Long:    `Show the backend, connection state, run and section counts, and the newest and oldest run.`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history backend %s is not initialized", cfg.HistoryBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports the render history to Parquet.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export render history to Parquet files",
	Long: `Write the recorded runs and sections to two Parquet files named after
--output-file, ready for pandas, DuckDB or Spark.

Examples:
  benchgrid history export --history-backend sqlite --output-file history.parquet`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the render history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  benchgrid history migrate --history-backend postgresql --history-db-connect "host=db dbname=bench"

  # Rollback everything
  benchgrid history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("History migrations applied successfully.")
	},
}

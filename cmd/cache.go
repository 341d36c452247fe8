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

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	connStr := viper.GetString("cache-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by the build commands. This avoids source
// validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report snapshot cache",
	Long: `Manage the cache of fetched report collections.

Benchgrid caches the raw bytes of each fetched collection, keyed by the source
and its fingerprint (file mtime and size, or the URL). Repeated builds of an
unchanged source skip the fetch until --cache-ttl expires.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached snapshots

Examples:
  # Check cache status
  benchgrid cache status

  # Clear a Redis cache
  BENCHGRID_CACHE_BACKEND=redis BENCHGRID_CACHE_DB_CONNECT="redis://localhost:6379/0" benchgrid cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached report snapshots",
	Long: `Delete all cached report snapshots from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table
For Redis: Deletes every snapshot key`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before its file is removed
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count, newest and oldest
entry times, and the size of the snapshot cache.

Examples:
  # Check cache status
  benchgrid cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend %s is not initialized", cfg.CacheBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
)

// snapshotTable is the name of the table for snapshot caching.
const snapshotTable = "benchgrid_snapshot_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with separate snapshot and history stores.
// An empty backend leaves the corresponding store unset.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var snapshot contract.CacheStore
		if cacheBackend != "" {
			store, err := NewCacheStore(snapshotTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize snapshot caching: %w", err)
				return
			}
			snapshot = store
		}

		var history contract.HistoryStore
		if historyBackend != "" {
			store, err := NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				if snapshot != nil {
					_ = snapshot.Close()
				}
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
			history = store
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.snapshot = snapshot
		Manager.history = history
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshot != nil {
			_ = Manager.snapshot.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearCache clears the snapshot cache for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
// For Redis, it deletes every snapshot key.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(orPath(connStr, contract.GetCacheDBFilePath()))

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, snapshotTable)

	case schema.RedisBackend:
		store, err := NewRedisCacheStore(connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		_, err = store.Clear()
		return err

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearHistory clears the render history for the specified backend.
func ClearHistory(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeSQLiteFile(orPath(connStr, contract.GetHistoryDBFilePath()))

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		// Sections first, then runs, then the migration bookkeeping
		return clearSQLTables(backend, connStr, renderSectionsTable, renderRunsTable, "schema_migrations")

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// orPath returns connStr unless it is empty.
func orPath(connStr, fallback string) string {
	if connStr == "" {
		return fallback
	}
	return connStr
}

// removeSQLiteFile removes the database file, ignoring a missing file.
func removeSQLiteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

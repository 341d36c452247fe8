package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CacheStoreImpl keeps raw report snapshots in a SQL table.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// NewCacheStore opens the snapshot cache for the given backend.
// The none backend yields a store that never hits and never writes.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	switch backend {
	case schema.NoneBackend:
		return &CacheStoreImpl{tableName: tableName, backend: backend}, nil
	case schema.RedisBackend:
		return NewRedisCacheStore(connStr)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, redis, or none", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetCacheDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(cacheTableDDL(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &CacheStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// cacheTableDDL returns the CREATE TABLE statement for the backend.
func cacheTableDDL(tableName string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quoted)
	}
}

// Get retrieves a snapshot by key. A miss returns sql.ErrNoRows.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	query := fmt.Sprintf(`SELECT cache_value, cache_version, cache_timestamp FROM %s WHERE cache_key = %s`,
		quoteTableName(cs.tableName, cs.backend), placeholder(cs.backend, 1))
	if err := cs.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a snapshot.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.db == nil {
		return nil
	}
	_, err := cs.db.Exec(cs.upsertQuery(), key, value, version, timestamp)
	return err
}

// upsertQuery returns the UPSERT statement for the backend.
func (cs *CacheStoreImpl) upsertQuery() string {
	quoted := quoteTableName(cs.tableName, cs.backend)
	switch cs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Close closes the underlying DB connection.
func (cs *CacheStoreImpl) Close() error {
	if cs.db != nil {
		return cs.db.Close()
	}
	return nil
}

// GetStatus returns entry counts, timestamps and an on-disk size estimate.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(cs.backend),
		Connected: cs.db != nil,
	}
	if cs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(cs.tableName, cs.backend)
	if err := cs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var oldestTs, lastTs int64
	row := cs.db.QueryRow(fmt.Sprintf("SELECT MIN(cache_timestamp), MAX(cache_timestamp) FROM %s", quoted))
	if err := row.Scan(&oldestTs, &lastTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.TableSizeBytes = tableSize(cs.db, cs.backend, cs.connStr, cs.tableName, status.TotalEntries)

	return status, nil
}

// tableSize estimates the storage used by a table.
// It falls back to a per-row estimate when the backend cannot report it.
func tableSize(db *sql.DB, backend schema.DatabaseBackend, connStr, tableName string, rows int) int64 {
	estimate := int64(rows) * 1000
	var size int64

	switch backend {
	case schema.SQLiteBackend:
		row := db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		if err := db.QueryRow("SELECT pg_total_relation_size($1)", tableName).Scan(&size); err != nil {
			return estimate
		}
		return size

	default:
		return estimate
	}
}

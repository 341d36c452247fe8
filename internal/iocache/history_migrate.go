package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// migrationDirs maps each SQL backend to its migrations subdirectory.
var migrationDirs = map[schema.DatabaseBackend]string{
	schema.SQLiteBackend:     "migrations/sqlite",
	schema.MySQLBackend:      "migrations/mysql",
	schema.PostgreSQLBackend: "migrations/postgres",
}

// MigrateHistory runs database migrations for the history store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}
	if _, ok := migrationDirs[backend]; !ok {
		return fmt.Errorf("unsupported backend: %s", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	msg, err := migrateHistoryDB(db, backend, targetVersion)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

// migrationDriver wraps an open DB in the golang-migrate driver for the backend.
func migrationDriver(db *sql.DB, backend schema.DatabaseBackend) (database.Driver, error) {
	switch backend {
	case schema.SQLiteBackend:
		driver, err := sqlite.WithInstance(db, &sqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}
		return driver, nil
	case schema.MySQLBackend:
		driver, err := mysql.WithInstance(db, &mysql.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}
		return driver, nil
	case schema.PostgreSQLBackend:
		driver, err := postgres.WithInstance(db, &postgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}
		return driver, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// migrateHistoryDB applies migrations on an open DB and describes the outcome.
func migrateHistoryDB(db *sql.DB, backend schema.DatabaseBackend, targetVersion int) (string, error) {
	driver, err := migrationDriver(db, backend)
	if err != nil {
		return "", err
	}

	dir, err := fs.Sub(migrationsFS, migrationDirs[backend])
	if err != nil {
		return "", fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(dir, ".")
	if err != nil {
		return "", fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "benchgrid", driver)
	if err != nil {
		return "", fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return "", fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return "", fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at the latest version.", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		newVersion, _, _ := m.Version()
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, newVersion), nil

	case targetVersion == 0:
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			return "No migration needed. Database is already at version 0", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		return fmt.Sprintf("Successfully rolled back from version %d to version 0", currentVersion), nil

	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Sprintf("No migration needed. Database is already at version %d", targetVersion), nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		return fmt.Sprintf("Successfully migrated from version %d to version %d", currentVersion, targetVersion), nil
	}
}

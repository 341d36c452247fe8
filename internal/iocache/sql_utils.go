package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/huangsam/benchgrid/schema"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf("%q", name)
}

// placeholder returns the nth (1-based) bind parameter for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// driverFor returns the database/sql driver name for a SQL backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL backend: %s", backend)
	}
}

// openSQL opens and pings a SQL backend. An empty SQLite path uses defaultPath.
func openSQL(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = defaultPath
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, fmt.Errorf("failed to initialize SQLite at %q: %w. Ensure the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// scanTime reads a time column written by formatTime.
func scanTime(backend schema.DatabaseBackend, raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeText(v)
	case []byte:
		return parseTimeText(string(v))
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unexpected %s time value %T", backend, raw)
	}
}

// parseTimeText parses RFC3339 text and the MySQL DATETIME text form.
func parseTimeText(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999", s)
}

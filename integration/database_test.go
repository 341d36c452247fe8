//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and returns its host and mapped port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseStores runs a build that fills the configured stores, then inspects and clears them.
func exerciseStores(t *testing.T, withHistory bool) {
	t.Helper()

	_, err := runBenchgrid(t, "cache", "clear")
	require.NoError(t, err)
	if withHistory {
		_, err = runBenchgrid(t, "history", "migrate")
		require.NoError(t, err)
	}

	// Run twice so the second build is served from the cache
	for range 2 {
		_, err = runBenchgrid(t, "sections", fixtureReports(t))
		require.NoError(t, err)
	}

	_, err = runBenchgrid(t, "cache", "status")
	require.NoError(t, err)

	if withHistory {
		_, err = runBenchgrid(t, "history", "status")
		require.NoError(t, err)
		_, err = runBenchgrid(t, "history", "export", "--output-file", filepath.Join(t.TempDir(), "history.parquet"))
		require.NoError(t, err)
		_, err = runBenchgrid(t, "history", "clear")
		require.NoError(t, err)
	}
}

// TestBenchgridWithMySQL tests the benchgrid CLI with a MySQL backend.
func TestBenchgridWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "benchgrid",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/benchgrid?parseTime=true", host, port)

	// History stays on SQLite because cache and history must use different databases
	t.Setenv("BENCHGRID_CACHE_BACKEND", "mysql")
	t.Setenv("BENCHGRID_CACHE_DB_CONNECT", connStr)
	t.Setenv("BENCHGRID_HISTORY_BACKEND", "sqlite")
	t.Setenv("BENCHGRID_HISTORY_DB_CONNECT", filepath.Join(t.TempDir(), "history.db"))

	exerciseStores(t, true)
}

// TestBenchgridWithPostgres tests the benchgrid CLI with a PostgreSQL backend.
func TestBenchgridWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
			"POSTGRES_DB":               "benchgrid",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432")

	// The cache uses the default database and history uses its own
	t.Setenv("BENCHGRID_CACHE_BACKEND", "postgresql")
	t.Setenv("BENCHGRID_CACHE_DB_CONNECT", fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port))
	t.Setenv("BENCHGRID_HISTORY_BACKEND", "postgresql")
	t.Setenv("BENCHGRID_HISTORY_DB_CONNECT", fmt.Sprintf("host=%s port=%s user=postgres dbname=benchgrid", host, port))

	exerciseStores(t, true)
}

// TestBenchgridWithRedis tests the benchgrid CLI with a Redis snapshot cache.
func TestBenchgridWithRedis(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, "6379")

	t.Setenv("BENCHGRID_CACHE_BACKEND", "redis")
	t.Setenv("BENCHGRID_CACHE_DB_CONNECT", fmt.Sprintf("redis://%s:%s/0", host, port))
	t.Setenv("BENCHGRID_HISTORY_BACKEND", "")

	exerciseStores(t, false)
}

//go:build basic

// Package integration contains end-to-end tests for the benchgrid binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every persistent store at a temp dir for one test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("BENCHGRID_CACHE_BACKEND", "sqlite")
	t.Setenv("BENCHGRID_CACHE_DB_CONNECT", filepath.Join(dir, "cache.db"))
	t.Setenv("BENCHGRID_HISTORY_BACKEND", "")
	return dir
}

func TestVersion(t *testing.T) {
	out, err := runBenchgrid(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "benchgrid CLI")
	assert.Contains(t, out, "Runtime:")
}

func TestSectionsText(t *testing.T) {
	isolate(t)
	out, err := runBenchgrid(t, "sections", fixtureReports(t), "--width", "120", "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "== nightly (2 rows)")
	assert.Contains(t, out, "Showing 1 sections with 2 rows")
}

func TestSectionsJSON(t *testing.T) {
	isolate(t)
	out, err := runBenchgrid(t, "sections", fixtureReports(t), "--group-by", "profile", "--output", "json", "--cache-backend", "none")
	require.NoError(t, err)

	// Notices go to stderr, so locate the JSON array in the combined output
	start := strings.Index(out, "[")
	require.GreaterOrEqual(t, start, 0)
	var sections []struct {
		Title string `json:"title"`
		Rows  []struct {
			Name string `json:"name"`
		} `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(out[start:])).Decode(&sections))
	require.Len(t, sections, 2)
	assert.Equal(t, "baseline", sections[0].Title)
	assert.Equal(t, "envoy", sections[1].Title)
}

func TestSectionsCSVFile(t *testing.T) {
	dir := isolate(t)
	outFile := filepath.Join(dir, "rows.csv")
	_, err := runBenchgrid(t, "sections", fixtureReports(t), "--output", "csv", "--output-file", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "header plus one line per row")
	assert.True(t, strings.HasPrefix(lines[0], "section_index,section_title"))
}

func TestRender(t *testing.T) {
	dir := isolate(t)
	chartDir := filepath.Join(dir, "charts")
	_, err := runBenchgrid(t, "render", fixtureReports(t), "--output-dir", chartDir)
	require.NoError(t, err)

	for _, name := range []string{"requests-by-latency.svg", "latency-by-requests.svg"} {
		data, err := os.ReadFile(filepath.Join(chartDir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	dir := isolate(t)
	t.Setenv("BENCHGRID_HISTORY_BACKEND", "sqlite")
	t.Setenv("BENCHGRID_HISTORY_DB_CONNECT", filepath.Join(dir, "history.db"))

	out, err := runBenchgrid(t, "sections", fixtureReports(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded render run")

	out, err = runBenchgrid(t, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runBenchgrid(t, "history", "clear")
	require.NoError(t, err)
}

func TestCacheCommands(t *testing.T) {
	isolate(t)
	_, err := runBenchgrid(t, "sections", fixtureReports(t))
	require.NoError(t, err)

	out, err := runBenchgrid(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = runBenchgrid(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared successfully.")
}

func TestInvalidInputs(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown grouping", []string{"sections", fixtureReports(t), "--group-by", "weekday"}},
		{"row height out of range", []string{"sections", fixtureReports(t), "--row-height", "0"}},
		{"parquet without file", []string{"sections", fixtureReports(t), "--output", "parquet"}},
		{"missing source", []string{"sections", filepath.Join(t.TempDir(), "missing.json")}},
		{"invalid view", []string{"render", fixtureReports(t), "--view", "pie"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runBenchgrid(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

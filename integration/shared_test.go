//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a benchgrid binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBenchgridBinary returns the path to the benchgrid binary, building it once if needed.
func getBenchgridBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "benchgrid-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "benchgrid")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build benchgrid: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// fixtureReports returns the absolute path of the fixture report collection.
func fixtureReports(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "reports.json"))
	require.NoError(t, err)
	return path
}

// runBenchgrid runs the binary from the project root and returns its combined output.
func runBenchgrid(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBenchgridBinary(), args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

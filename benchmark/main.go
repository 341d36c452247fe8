// Package main provides a performance benchmarking tool for the benchgrid CLI.
// It generates synthetic Fortio report collections of increasing size, then times
// the sections and render commands against each one, with and without the
// snapshot cache. The first cached run is reported as cold and the rest are
// averaged as warm. Results are written to a CSV file.
//
// Prerequisites:
// - benchgrid binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated collections and cache files
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/benchgrid/schema"
)

// BenchmarkResult holds the timings of one command over one collection.
type BenchmarkResult struct {
	Collection  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sizes       []int               // Reports per generated collection
	Commands    map[string][]string // Command name to extra arguments
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sizes:       []int{10, 100, 1000, 5000},
		Commands: map[string][]string{
			"sections": {"--output", "json", "--output-file", os.DevNull},
			"render":   {"--view", "both"},
		},
	}

	if _, err := exec.LookPath("benchgrid"); err != nil {
		fmt.Println("Prerequisites check failed: benchgrid binary not found in PATH")
		os.Exit(1)
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// runBenchmarks generates every collection and times every command on it.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.Sizes {
		name := fmt.Sprintf("reports-%d", size)
		path := filepath.Join(config.WorkDir, name+".json")
		if err := generateCollection(path, size); err != nil {
			fmt.Printf("Skipping %s: %v\n", name, err)
			continue
		}
		fmt.Printf("Benchmarking %s\n", name)

		for _, command := range []string{"sections", "render"} {
			results = append(results, runBenchmarkSuite(config, name, path, command))
		}
	}

	return results
}

// generateCollection writes a collection of n synthetic reports spread over
// several runs, profiles and protocols.
func generateCollection(path string, n int) error {
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	profiles := []string{"baseline", "envoy", "linkerd", "nginx"}
	protocols := []string{"http", "grpc", "tcp"}

	raws := make([]schema.RawReport, 0, n)
	for i := range n {
		profile := profiles[i%len(profiles)]
		kind := schema.ProxyKind
		if profile == "baseline" {
			kind = schema.BaselineKind
		}
		labels, err := json.Marshal(map[string]any{
			"run":      fmt.Sprintf("run-%d", i/len(profiles)%20),
			"kind":     kind,
			"name":     profile,
			"protocol": protocols[i%len(protocols)],
			"rate":     1000,
			"build":    fmt.Sprintf("b%d", i%7),
		})
		if err != nil {
			return err
		}
		raws = append(raws, schema.RawReport{
			Labels:            string(labels),
			ActualQPS:         900 + rng.Float64()*100,
			ActualDuration:    30e9,
			DurationHistogram: syntheticHistogram(rng),
		})
	}

	data, err := json.Marshal(raws)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// syntheticHistogram builds a histogram of a few dozen buckets with gaps.
func syntheticHistogram(rng *rand.Rand) schema.Histogram {
	var h schema.Histogram
	start := 0.0001 + rng.Float64()*0.0005
	for range 40 {
		width := 0.0001 + rng.Float64()*0.0004
		if rng.IntN(5) == 0 {
			start += width // leave a gap
		}
		count := int64(1 + rng.IntN(500))
		h.Data = append(h.Data, schema.HistogramBucket{Start: start, End: start + width, Count: count})
		h.Count += count
		h.Sum += float64(count) * (start + width/2)
		start += width
	}
	h.Min = h.Data[0].Start
	h.Max = start
	h.Avg = h.Sum / float64(h.Count)
	h.Percentiles = []schema.Percentile{
		{Percentile: 50, Value: h.Min + (h.Max-h.Min)*0.5},
		{Percentile: 90, Value: h.Min + (h.Max-h.Min)*0.9},
		{Percentile: 99, Value: h.Min + (h.Max-h.Min)*0.99},
	}
	return h
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, path, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh SQLite file
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Collection:  name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a benchgrid command multiple times with the given cache
// backend and returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, path, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	cacheFile := filepath.Join(config.WorkDir, strings.TrimSuffix(filepath.Base(path), ".json")+"-"+command+".db")
	_ = os.Remove(cacheFile)

	args := []string{command, path, "--cache-backend", cacheBackend}
	if cacheBackend == "sqlite" {
		args = append(args, "--cache-db-connect", cacheFile)
	}
	if command == "render" {
		args = append(args, "--output-dir", filepath.Join(config.WorkDir, "charts"))
	}
	args = append(args, config.Commands[command]...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("benchgrid", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "render" {
		return strings.Contains(outputStr, "chart to")
	}
	return strings.Contains(outputStr, "Wrote JSON")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/benchgrid_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"collection", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Collection, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"sections", "render"} {
		fmt.Printf("%s (%s):\n", command, strings.Join(config.Commands[command], " "))
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-14s: No-cache: %s, Cold: %s, Warm: %s\n", result.Collection, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}

// Package main provides a performance benchmarking tool for the Scorecards CLI.
// It measures execution times across catalog directories and command types,
// running each command multiple times, treating the first successful cached run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - scorecards binary installed and available in PATH
// - One or more catalog directories under the base directory
//
// Usage: go run benchmark/main.go [catalog-base-dir]
//
//	catalog-base-dir: Directory whose subdirectories are catalogs (each with a registry.json)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Catalog     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	CatalogBase string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	Catalogs    []string
	Commands    [][]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [catalog-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	catalogBase := os.Args[1]

	catalogs, err := findCatalogs(catalogBase)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	config := BenchmarkConfig{
		CatalogBase: catalogBase,
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Catalogs:    catalogs,
		Commands: [][]string{
			{"services"},
			{"teams"},
			{"adoption"},
			{"stats"},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the cache using scorecards cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("scorecards", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Commands)
}

// checkPrerequisites verifies that the scorecards binary exists.
func checkPrerequisites() error {
	if _, err := exec.LookPath("scorecards"); err != nil {
		return fmt.Errorf("scorecards binary not found in PATH")
	}
	return nil
}

// findCatalogs returns the subdirectories of base holding a registry.json, in name order.
func findCatalogs(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog base %s: %w", base, err)
	}
	var catalogs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(base, e.Name(), "registry.json")); err == nil {
			catalogs = append(catalogs, e.Name())
		}
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no catalogs with registry.json found under %s", base)
	}
	return catalogs, nil
}

// runBenchmarks executes all benchmark tests across configured catalogs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d catalogs, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.Catalogs), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, catalog := range config.Catalogs {
		fmt.Printf("Benchmarking %s\n", catalog)
		catalogPath := filepath.Join(config.CatalogBase, catalog)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, catalog, catalogPath, command))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, catalog, catalogPath string, command []string) BenchmarkResult {
	name := strings.Join(command, " ")
	fmt.Printf("Running %s on %s\n", name, catalog)

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, catalogPath, command, cacheBackend, numRuns)
		return cold, formatAverage(times)
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Catalog:     catalog,
		Command:     name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// formatAverage renders the mean of times in seconds, or TIMEOUT when nothing succeeded.
func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// runBenchmark executes a scorecards command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, catalogPath string, command []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := benchmarkArgs(command, catalogPath, cacheBackend, config.Workers)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("scorecards", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// benchmarkArgs builds the argument list for one run.
func benchmarkArgs(command []string, catalogPath, cacheBackend string, workers int) []string {
	args := append([]string{}, command...)
	return append(args, catalogPath,
		"--cache-backend", cacheBackend,
		"--workers", fmt.Sprint(workers),
		"--color", "no",
	)
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Completed in") &&
		strings.Contains(outputStr, "backend")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/scorecards_benchmark_%s.csv", timestamp)

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

	// Write header
	if err := writer.Write([]string{"catalog", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Catalog, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, commands [][]string) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		name := strings.Join(command, " ")
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-16s: No-cache: %s, Cold: %s, Warm: %s\n", result.Catalog, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}

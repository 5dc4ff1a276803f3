// Package main provides a performance benchmarking tool for the psymap CLI.
// It generates synthetic cohorts of increasing size from a seed dataset, then
// measures ranking and final assessment times, running each test multiple times,
// treating the first successful cached run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - psymap binary installed and available in PATH
//
// Usage: go run benchmark/main.go [seed-dataset]
//
//	seed-dataset: Dataset file whose first template and rated participants seed the cohorts
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/psymap/psymap/internal/ratingstore"
	"github.com/psymap/psymap/schema"
	"gopkg.in/yaml.v3"
)

// benchEvent and benchPosition identify the generated cohort.
const (
	benchEvent    = "BENCH"
	benchPosition = 1
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	CohortSize  int
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SeedPath    string
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	CohortSizes []int
	Commands    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [seed-dataset]\n", os.Args[0])
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "psymap-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		SeedPath:    os.Args[1],
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		CohortSizes: []int{100, 1000, 10000},
		Commands:    []string{"ranking", "final"},
	}

	if _, err := exec.LookPath("psymap"); err != nil {
		fmt.Printf("Prerequisites check failed: psymap binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// generateCohort replicates the fully rated seed participants into one cohort
// of the given size, jittering individual ratings so scores spread out.
func generateCohort(seed *ratingstore.Dataset, size int) (*ratingstore.Dataset, error) {
	if len(seed.Templates) == 0 || len(seed.Ratings) == 0 {
		return nil, fmt.Errorf("seed dataset needs a template and rated participants")
	}
	template := seed.Templates[0]
	rng := rand.New(rand.NewPCG(uint64(size), 42))

	out := &ratingstore.Dataset{Templates: []schema.Template{template}}
	for i := range size {
		id := int64(i + 1)
		base := seed.Ratings[i%len(seed.Ratings)]
		out.Participants = append(out.Participants, schema.Participant{
			ID:                  id,
			Name:                "PARTICIPANT " + strconv.FormatInt(id, 10),
			EventCode:           benchEvent,
			PositionFormationID: benchPosition,
			TemplateID:          template.ID,
		})
		out.Ratings = append(out.Ratings, schema.RatingSet{
			ParticipantID: id,
			Aspects:       jitter(rng, base.Aspects),
			SubAspects:    jitter(rng, base.SubAspects),
		})
	}
	return out, nil
}

func jitter(rng *rand.Rand, records map[string]schema.RatingRecord) map[string]schema.RatingRecord {
	out := make(map[string]schema.RatingRecord, len(records))
	for code, r := range records {
		r.IndividualRating = min(schema.MaxRating, max(1, r.IndividualRating+float64(rng.IntN(3)-1)))
		out[code] = r
	}
	return out
}

// writeCohort stores a generated cohort as a dataset file.
func writeCohort(dir string, ds *ratingstore.Dataset) (string, error) {
	data, err := yaml.Marshal(ds)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("cohort_%d.yaml", len(ds.Participants)))
	return path, os.WriteFile(path, data, 0o644)
}

// runBenchmarks executes all benchmark tests across configured cohort sizes
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	seed, err := ratingstore.LoadDataset(config.SeedPath)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Starting benchmark: %d cohort sizes, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.CohortSizes), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	var results []BenchmarkResult
	for _, size := range config.CohortSizes {
		cohort, err := generateCohort(seed, size)
		if err != nil {
			return nil, err
		}
		dataPath, err := writeCohort(config.WorkDir, cohort)
		if err != nil {
			return nil, fmt.Errorf("failed to write cohort of %d: %w", size, err)
		}

		fmt.Printf("Benchmarking cohort of %d\n", size)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, size, dataPath, command))
		}
	}
	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, size int, dataPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %d participants\n", command, size)

	// Each suite gets a fresh HOME so the SQLite cache starts cold
	home := filepath.Join(config.WorkDir, fmt.Sprintf("home_%d_%s", size, command))
	if err := os.MkdirAll(home, 0o755); err != nil {
		fmt.Printf("  Warning: failed to create %s: %v\n", home, err)
	}

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, home, dataPath, command, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
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
		CohortSize:  size,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a psymap command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, home, dataPath, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--event", benchEvent,
		"--position", strconv.Itoa(benchPosition),
		"--data-source", dataPath,
		"--cache-backend", cacheBackend,
		"--output", "csv",
		"--output-file", filepath.Join(home, command+".csv"),
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("psymap", args...)
		cmd.Env = append(os.Environ(), "HOME="+home)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("psymap_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"cohort_size", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.CohortSize), result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printCommandSummary(results, "ranking", "Ranking:")
	printCommandSummary(results, "final", "Final Assessment:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %6d participants: No-cache: %s, Cold: %s, Warm: %s\n", result.CohortSize, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}

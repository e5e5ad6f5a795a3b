// Package bench provides benchmarking primitives for the saxpy bench command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	sigstats "github.com/cwbudde/algo-dsp/stats/time"
	"github.com/example/go-saxpy/internal/saxpy"
)

// flopsPerElement counts the multiply and the add of one SAXPY element.
const flopsPerElement = 2

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing of a single update over the whole vector.
type RunResult struct {
	Index    int
	Cold     bool // true for the first run (cold caches)
	Duration time.Duration
	Elements int
	GFLOPS   float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

// ComputeStats calculates min, max, mean and population standard deviation
// over a slice of durations. An empty slice yields zero Stats.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}

	ns := make([]float64, len(durations))
	mn, mx := durations[0], durations[0]
	for i, d := range durations {
		mn = min(mn, d)
		mx = max(mx, d)
		ns[i] = float64(d)
	}

	mean, variance, _, _ := sigstats.Moments(ns)

	return Stats{
		Min:    mn,
		Max:    mx,
		Mean:   time.Duration(math.Round(mean)),
		StdDev: time.Duration(math.Round(math.Sqrt(variance))),
	}
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcGFLOPS returns the update throughput in GFLOP/s.
// Returns 0 if d is not positive.
func CalcGFLOPS(elements int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(flopsPerElement*elements) / float64(d.Nanoseconds())
}

// MeanGFLOPS averages the per-run throughput.
func MeanGFLOPS(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}

	var total float64
	for _, r := range runs {
		total += r.GFLOPS
	}

	return total / float64(len(runs))
}

// CheckThroughputThreshold returns an error if mean < threshold.
// A threshold of 0 disables the gate.
func CheckThroughputThreshold(mean, threshold float64) error {
	if threshold <= 0 {
		return nil
	}

	if mean < threshold {
		return fmt.Errorf("mean throughput %.3f GFLOP/s below threshold %.3f", mean, threshold)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Options configures Run.
type Options struct {
	Length   int
	Alpha    float32
	Runs     int
	Executor *saxpy.Executor
}

// Run allocates one vector pair, fills the fixture and times opts.Runs
// updates over it. y accumulates across runs. ctx is checked between runs;
// an update in progress always completes.
func Run(ctx context.Context, opts Options) ([]RunResult, error) {
	if opts.Runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", opts.Runs)
	}

	exec := opts.Executor
	if exec == nil {
		exec = saxpy.Default()
	}

	results := make([]RunResult, 0, opts.Runs)

	err := saxpy.WithPair(opts.Length, func(x, y []float32) error {
		exec.Fill(x, y)

		for i := range opts.Runs {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}

			start := time.Now()
			exec.Update(opts.Length, opts.Alpha, x, y)
			dur := time.Since(start)

			results = append(results, RunResult{
				Index:    i,
				Cold:     i == 0,
				Duration: dur,
				Elements: opts.Length,
				GFLOPS:   CalcGFLOPS(opts.Length, dur),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Durations extracts the run durations in order.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}

	return out
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10s  %10s\n", "Run", "Cold", "Elements", "us", "GFLOP/s")
	fmt.Fprintln(sb, strings.Repeat("-", 50))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %12d  %10.1f  %10.3f\n",
			r.Index+1,
			cold,
			r.Elements,
			micros(r.Duration),
			r.GFLOPS,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 50))
	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10.1f  %10s  (min)\n", "", "", "", micros(stats.Min), "")
	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10.1f  %10.3f  (mean)\n", "", "", "", micros(stats.Mean), MeanGFLOPS(runs))
	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10.1f  %10s  (max)\n", "", "", "", micros(stats.Max), "")
	fmt.Fprintf(sb, "%-5s  %-5s  %12s  %10.1f  %10s  (stddev)\n", "", "", "", micros(stats.StdDev), "")

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	Elements   int     `json:"elements"`
	DurationUS float64 `json:"duration_us"`
	GFLOPS     float64 `json:"gflops"`
}

type jsonStats struct {
	MinUS      float64 `json:"min_us"`
	MeanUS     float64 `json:"mean_us"`
	MaxUS      float64 `json:"max_us"`
	StdDevUS   float64 `json:"stddev_us"`
	MeanGFLOPS float64 `json:"mean_gflops"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) error {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinUS:      micros(stats.Min),
			MeanUS:     micros(stats.Mean),
			MaxUS:      micros(stats.Max),
			StdDevUS:   micros(stats.StdDev),
			MeanGFLOPS: MeanGFLOPS(runs),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			Elements:   r.Elements,
			DurationUS: micros(r.Duration),
			GFLOPS:     r.GFLOPS,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jr)
}

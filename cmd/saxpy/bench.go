package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/example/go-saxpy/internal/bench"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs          int
		format        string
		minThroughput float64
		cpuprofile    string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark update latency and throughput",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return errors.New("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return errors.New("--format must be 'table' or 'json'")
			}

			exec, err := newExecutor(cfg)
			if err != nil {
				return err
			}

			if cpuprofile != "" {
				f, ferr := os.Create(cpuprofile)
				if ferr != nil {
					return fmt.Errorf("create cpu profile: %w", ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("close cpu profile: %w", cerr)
					}
				}()
				if perr := pprof.StartCPUProfile(f); perr != nil {
					return fmt.Errorf("start cpu profile: %w", perr)
				}
				defer pprof.StopCPUProfile()
			}

			results, err := bench.Run(cmd.Context(), bench.Options{
				Length:   cfg.SAXPY.Length,
				Alpha:    float32(cfg.SAXPY.Alpha),
				Runs:     runs,
				Executor: exec,
			})
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))
			mean := bench.MeanGFLOPS(results)

			slog.Debug("bench complete",
				"runs", runs,
				"length", cfg.SAXPY.Length,
				"workers", exec.Plan(cfg.SAXPY.Length),
				"kernel", exec.Kernel(),
				"mean_gflops", mean,
			)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				if err := bench.FormatJSON(results, stats, out); err != nil {
					return fmt.Errorf("write json report: %w", err)
				}
			default:
				bench.FormatTable(results, stats, out)
			}

			return bench.CheckThroughputThreshold(mean, minThroughput)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of timed updates")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minThroughput, "min-throughput", 0, "Exit non-zero if mean GFLOP/s is below this value (0 = disabled)")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file")

	return cmd
}

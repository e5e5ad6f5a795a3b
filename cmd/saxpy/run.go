package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-saxpy/internal/harness"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		printResult bool
		verify      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill the fixture vectors, run one update and check the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			exec, err := newExecutor(cfg)
			if err != nil {
				return err
			}

			opts := harness.Options{
				Length:   cfg.SAXPY.Length,
				Alpha:    float32(cfg.SAXPY.Alpha),
				Verify:   verify,
				Executor: exec,
				Logger:   slog.Default(),
			}
			if printResult {
				opts.Print = cmd.OutOrStdout()
			}

			if _, err := harness.Run(opts); err != nil {
				return fmt.Errorf("saxpy run: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printResult, "print", false, "Print every y value after the update")
	cmd.Flags().BoolVar(&verify, "verify", true, "Compare against the sequential reference")

	return cmd
}

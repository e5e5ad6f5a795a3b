package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-saxpy/internal/config"
	"github.com/example/go-saxpy/internal/logging"
	"github.com/example/go-saxpy/internal/saxpy"
	"github.com/example/go-saxpy/internal/saxpy/kernel"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "saxpy",
		Short:         "Parallel single-precision y = a*x + y",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			logging.Setup(os.Stderr, loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

func requireConfig() (config.Config, error) {
	if activeCfg.Runtime.Kernel == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}

// newExecutor builds the executor described by the runtime section.
func newExecutor(cfg config.Config) (*saxpy.Executor, error) {
	partition, err := saxpy.ParsePartition(cfg.Runtime.Partition)
	if err != nil {
		return nil, err
	}

	k, err := kernel.Global.ByName(cfg.Runtime.Kernel)
	if err != nil {
		return nil, fmt.Errorf("select kernel: %w", err)
	}

	return saxpy.NewExecutor(
		saxpy.WithWorkers(cfg.Runtime.Workers),
		saxpy.WithPartition(partition),
		saxpy.WithMinChunk(cfg.Runtime.MinChunk),
		saxpy.WithKernel(k),
	), nil
}

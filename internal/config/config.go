package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	SAXPY    SAXPYConfig   `mapstructure:"saxpy"`
	Runtime  RuntimeConfig `mapstructure:"runtime"`
}

type SAXPYConfig struct {
	Length int `mapstructure:"length"`
	// Alpha is read as float64 and narrowed to float32 at the call site.
	Alpha float64 `mapstructure:"alpha"`
}

type RuntimeConfig struct {
	Workers   int    `mapstructure:"workers"`
	Partition string `mapstructure:"partition"`
	MinChunk  int    `mapstructure:"min_chunk"`
	Kernel    string `mapstructure:"kernel"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each config key to the flag that overrides it.
var flagKeys = []struct {
	key  string
	flag string
}{
	{"log_level", "log-level"},
	{"saxpy.length", "length"},
	{"saxpy.alpha", "alpha"},
	{"runtime.workers", "workers"},
	{"runtime.partition", "partition"},
	{"runtime.min_chunk", "min-chunk"},
	{"runtime.kernel", "kernel"},
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		SAXPY: SAXPYConfig{
			Length: 1 << 16,
			Alpha:  2.0,
		},
		Runtime: RuntimeConfig{
			Workers:   0,
			Partition: PartitionContiguous,
			MinChunk:  1024,
			Kernel:    KernelAuto,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
	fs.Int("length", defaults.SAXPY.Length, "Number of vector elements")
	fs.Float64("alpha", defaults.SAXPY.Alpha, "Scalar coefficient a (narrowed to float32)")
	fs.Int("workers", defaults.Runtime.Workers, "Maximum goroutines per update (0 = GOMAXPROCS)")
	fs.String("partition", defaults.Runtime.Partition, "Index partition scheme: contiguous|strided")
	fs.Int("min-chunk", defaults.Runtime.MinChunk, "Minimum elements per worker")
	fs.String("kernel", defaults.Runtime.Kernel, "Inner loop kernel: auto|generic|unrolled4")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("SAXPY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("saxpy")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate normalizes enum fields in place and rejects out-of-range values.
func (c *Config) Validate() error {
	if c.SAXPY.Length < 0 {
		return fmt.Errorf("saxpy.length must be >= 0, got %d", c.SAXPY.Length)
	}
	if c.Runtime.Workers < 0 {
		return fmt.Errorf("runtime.workers must be >= 0, got %d", c.Runtime.Workers)
	}
	if c.Runtime.MinChunk < 1 {
		return fmt.Errorf("runtime.min_chunk must be >= 1, got %d", c.Runtime.MinChunk)
	}

	partition, err := NormalizePartition(c.Runtime.Partition)
	if err != nil {
		return err
	}
	c.Runtime.Partition = partition

	kernel, err := NormalizeKernel(c.Runtime.Kernel)
	if err != nil {
		return err
	}
	c.Runtime.Kernel = kernel

	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("saxpy.length", c.SAXPY.Length)
	v.SetDefault("saxpy.alpha", c.SAXPY.Alpha)
	v.SetDefault("runtime.workers", c.Runtime.Workers)
	v.SetDefault("runtime.partition", c.Runtime.Partition)
	v.SetDefault("runtime.min_chunk", c.Runtime.MinChunk)
	v.SetDefault("runtime.kernel", c.Runtime.Kernel)
}

// bindFlags binds each known flag present in fs to its nested key. Binding by
// key rather than by alias keeps config file values visible to Unmarshal.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
	}

	return nil
}

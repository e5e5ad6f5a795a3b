package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-saxpy/internal/config"
)

// execute runs the root command with args inside an empty working directory
// and restores the package globals it touches.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	origCfg, origFile, origLog := activeCfg, cfgFile, slog.Default()
	t.Cleanup(func() {
		activeCfg, cfgFile = origCfg, origFile
		slog.SetDefault(origLog)
	})
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"run", "bench", "doctor"} {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "log-level", "length", "alpha", "workers", "partition", "min-chunk", "kernel"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{}

	if _, err := requireConfig(); err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.DefaultConfig()

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.SAXPY.Length != 1<<16 {
		t.Errorf("unexpected length: %d", got.SAXPY.Length)
	}
}

func TestNewExecutor_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Runtime.Workers = 3
	cfg.Runtime.Partition = "strided"
	cfg.Runtime.MinChunk = 7
	cfg.Runtime.Kernel = "generic"

	exec, err := newExecutor(cfg)
	if err != nil {
		t.Fatalf("newExecutor() error = %v", err)
	}

	if exec.Workers() != 3 || exec.Partition().String() != "strided" || exec.MinChunk() != 7 || exec.Kernel() != "generic" {
		t.Errorf("executor = workers %d, partition %s, min chunk %d, kernel %s",
			exec.Workers(), exec.Partition(), exec.MinChunk(), exec.Kernel())
	}
}

func TestNewExecutor_UnknownKernel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Runtime.Kernel = "avx9000"

	if _, err := newExecutor(cfg); err == nil {
		t.Fatal("expected error for unknown kernel")
	}
}

func TestRunCmd_PrintsFixture(t *testing.T) {
	stdout, _, err := execute(t, "run", "--length", "3", "--workers", "2", "--print", "--log-level", "error")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := "0.000000 1.200000 2.400000 \n"
	if stdout != want {
		t.Errorf("stdout = %q; want %q", stdout, want)
	}
}

func TestRunCmd_SilentWithoutPrint(t *testing.T) {
	stdout, _, err := execute(t, "run", "--length", "1000", "--partition", "strided", "--log-level", "error")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stdout != "" {
		t.Errorf("stdout = %q; want empty", stdout)
	}
}

func TestRunCmd_ReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saxpy.yaml")
	body := "log_level: error\nsaxpy:\n  length: 2\n  alpha: 4\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "run", "--config", path, "--print")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// x = {0, 0.5}, y = {0, 0.2}, a = 4.
	want := "0.000000 2.200000 \n"
	if stdout != want {
		t.Errorf("stdout = %q; want %q", stdout, want)
	}
}

func TestRunCmd_InvalidConfigFails(t *testing.T) {
	if _, _, err := execute(t, "run", "--min-chunk", "0"); err == nil {
		t.Fatal("expected error for min-chunk 0")
	}
}

func TestBenchCmd_JSON(t *testing.T) {
	stdout, _, err := execute(t, "bench", "--length", "256", "--runs", "2", "--format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}

	var report map[string]any
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("bench output is not JSON: %v\n%s", err, stdout)
	}
}

func TestBenchCmd_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero runs", []string{"bench", "--runs", "0"}},
		{"unknown format", []string{"bench", "--format", "xml"}},
		{"unreachable throughput", []string{"bench", "--length", "16", "--runs", "1", "--min-throughput", "1e12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, append(tt.args, "--log-level", "error")...); err == nil {
				t.Fatalf("%v: expected error", tt.args)
			}
		})
	}
}

func TestBenchCmd_WritesCPUProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "cpu.pprof")

	if _, _, err := execute(t, "bench", "--length", "64", "--runs", "1", "--cpuprofile", profile, "--log-level", "error"); err != nil {
		t.Fatalf("bench: %v", err)
	}

	info, err := os.Stat(profile)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("profile is empty")
	}
}

func TestDoctorCmd_Passes(t *testing.T) {
	stdout, stderr, err := execute(t, "doctor", "--log-level", "error")
	if err != nil {
		t.Fatalf("doctor: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "doctor checks passed") {
		t.Errorf("stdout missing pass line:\n%s", stdout)
	}
}

// Package doctor provides environment preflight checks for saxpy.
package doctor

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/example/go-saxpy/internal/saxpy"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Features is the CPU description to report. Nil means detect.
	Features *cpu.Features
	// Executor is the configured executor whose settings are checked.
	Executor *saxpy.Executor
	// SelfTest runs the known-answer scenarios. Nil selects SelfTest.
	SelfTest func(*saxpy.Executor) error
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	features := cpu.DetectFeatures()
	if cfg.Features != nil {
		features = *cfg.Features
	}

	exec := cfg.Executor
	if exec == nil {
		exec = saxpy.Default()
	}

	selfTest := cfg.SelfTest
	if selfTest == nil {
		selfTest = SelfTest
	}

	// ---- platform ---------------------------------------------------------
	arch := features.Architecture
	if arch == "" {
		arch = runtime.GOARCH
	}
	fmt.Fprintf(w, "%s platform: %s/%s, %s\n", PassMark, runtime.GOOS, arch, runtime.Version())
	fmt.Fprintf(w, "%s cpu features: %s\n", PassMark, strings.Join(FeatureList(features), ", "))

	// ---- parallelism ------------------------------------------------------
	if exec.Workers() < 1 {
		res.fail(fmt.Sprintf("workers: %d is not usable", exec.Workers()))
		fmt.Fprintf(w, "%s workers: %d (must be >= 1)\n", FailMark, exec.Workers())
	} else {
		fmt.Fprintf(w, "%s workers: %d (GOMAXPROCS %d, NumCPU %d)\n",
			PassMark, exec.Workers(), runtime.GOMAXPROCS(0), runtime.NumCPU())
	}
	fmt.Fprintf(w, "%s partition: %s, min chunk %d\n", PassMark, exec.Partition(), exec.MinChunk())

	// ---- kernel -----------------------------------------------------------
	fmt.Fprintf(w, "%s kernel: %s\n", PassMark, exec.Kernel())

	// ---- self test --------------------------------------------------------
	if err := selfTest(exec); err != nil {
		res.fail(fmt.Sprintf("self test: %v", err))
		fmt.Fprintf(w, "%s self test: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s self test: known-answer scenarios passed\n", PassMark)
	}

	return res
}

// FeatureList names the SIMD extensions present in f, or "none".
func FeatureList(f cpu.Features) []string {
	var out []string
	for _, feat := range []struct {
		name string
		ok   bool
	}{
		{"SSE2", f.HasSSE2},
		{"AVX", f.HasAVX},
		{"AVX2", f.HasAVX2},
		{"AVX-512", f.HasAVX512},
		{"NEON", f.HasNEON},
	} {
		if feat.ok {
			out = append(out, feat.name)
		}
	}

	if len(out) == 0 {
		out = append(out, "none")
	}
	if f.ForceGeneric {
		out = append(out, "(forced generic)")
	}

	return out
}

// SelfTest runs fixed known-answer updates through exec and returns an error
// describing the first mismatch.
func SelfTest(exec *saxpy.Executor) error {
	scenarios := []struct {
		name string
		a    float32
		x, y []float32
		want []float32
		tol  float32
	}{
		{
			name: "integers",
			a:    2.0,
			x:    []float32{1, 2, 3, 4},
			y:    []float32{10, 20, 30, 40},
			want: []float32{12, 24, 36, 48},
		},
		{
			name: "fixture",
			a:    2.0,
			x:    []float32{0, 0.5, 1},
			y:    []float32{0, 0.2, 0.4},
			want: []float32{0, 1.2, 2.4},
			tol:  1e-6,
		},
		{
			name: "zero alpha",
			a:    0,
			x:    []float32{7, 8, 9},
			y:    []float32{1, 2, 3},
			want: []float32{1, 2, 3},
		},
	}

	for _, sc := range scenarios {
		y := append([]float32(nil), sc.y...)
		exec.Update(len(y), sc.a, sc.x, y)

		for i := range y {
			d := y[i] - sc.want[i]
			if d < 0 {
				d = -d
			}
			if !(d <= sc.tol) {
				return fmt.Errorf("%s: y[%d] = %v, want %v", sc.name, i, y[i], sc.want[i])
			}
		}
	}

	return nil
}

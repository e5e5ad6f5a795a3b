// Package harness drives one end-to-end SAXPY run: allocate the vector pair,
// fill the fixture, run the parallel update and check it against the
// sequential reference.
package harness

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/example/go-saxpy/internal/logging"
	"github.com/example/go-saxpy/internal/saxpy"
)

// Options configures Run.
type Options struct {
	Length int
	Alpha  float32
	// Verify compares the result against saxpy.Reference.
	Verify bool
	// Print, when non-nil, receives every y value after the update.
	Print    io.Writer
	Executor *saxpy.Executor
	Logger   *slog.Logger
}

// Report summarizes a completed run.
type Report struct {
	Length    int
	Alpha     float32
	Workers   int
	Partition string
	Kernel    string
	Elapsed   time.Duration
	Verified  bool
}

// MismatchError reports that the parallel result differs from the reference.
type MismatchError struct {
	Index int
	Got   float32
	Want  float32
	Count int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("result mismatch at index %d: got %v, want %v (%d elements differ)",
		e.Index, e.Got, e.Want, e.Count)
}

// Run executes one fixture run.
func Run(opts Options) (Report, error) {
	exec := opts.Executor
	if exec == nil {
		exec = saxpy.Default()
	}
	logger := logging.OrDefault(opts.Logger)

	rep := Report{
		Length:    opts.Length,
		Alpha:     opts.Alpha,
		Workers:   exec.Plan(opts.Length),
		Partition: exec.Partition().String(),
		Kernel:    exec.Kernel(),
	}

	err := saxpy.WithPair(opts.Length, func(x, y []float32) error {
		exec.Fill(x, y)

		var want []float32
		if opts.Verify {
			want = slices.Clone(y)
			saxpy.Reference(opts.Length, opts.Alpha, x, want)
		}

		start := time.Now()
		exec.Update(opts.Length, opts.Alpha, x, y)
		rep.Elapsed = time.Since(start)

		if opts.Verify {
			if err := Compare(y, want); err != nil {
				return err
			}
			rep.Verified = true
		}

		if opts.Print != nil {
			if err := Print(opts.Print, y); err != nil {
				return fmt.Errorf("print result: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return rep, err
	}

	logger.Info("saxpy run complete",
		"length", rep.Length,
		"alpha", rep.Alpha,
		"workers", rep.Workers,
		"partition", rep.Partition,
		"kernel", rep.Kernel,
		"elapsed_ms", float64(rep.Elapsed.Microseconds())/1000,
		"verified", rep.Verified,
	)

	return rep, nil
}

// Compare returns a *MismatchError unless got and want are bit-identical.
// Bit comparison treats identical NaNs as equal.
func Compare(got, want []float32) error {
	if len(got) != len(want) {
		return fmt.Errorf("length mismatch: got %d, want %d", len(got), len(want))
	}

	var mm *MismatchError
	for i := range got {
		if math.Float32bits(got[i]) == math.Float32bits(want[i]) {
			continue
		}
		if mm == nil {
			mm = &MismatchError{Index: i, Got: got[i], Want: want[i]}
		}
		mm.Count++
	}

	if mm != nil {
		return mm
	}

	return nil
}

// Print writes y as space-separated "%f" values followed by a newline.
func Print(w io.Writer, y []float32) error {
	bw := bufio.NewWriter(w)
	for _, v := range y {
		if _, err := fmt.Fprintf(bw, "%f ", v); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	return bw.Flush()
}

package saxpy

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/example/go-saxpy/internal/saxpy/kernel"
)

// Partition selects how the index range is split across workers.
type Partition int

const (
	// PartitionContiguous gives each worker one run of consecutive indices.
	PartitionContiguous Partition = iota
	// PartitionStrided gives worker w the indices w, w+W, w+2W, ...
	PartitionStrided
)

// DefaultMinChunk is the smallest share of indices worth a goroutine.
const DefaultMinChunk = 1024

func (p Partition) String() string {
	switch p {
	case PartitionContiguous:
		return "contiguous"
	case PartitionStrided:
		return "strided"
	default:
		return fmt.Sprintf("Partition(%d)", int(p))
	}
}

// ParsePartition converts a case-insensitive name to a Partition.
// An empty string selects PartitionContiguous.
func ParsePartition(s string) (Partition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "contiguous", "static":
		return PartitionContiguous, nil
	case "strided", "cyclic":
		return PartitionStrided, nil
	default:
		return 0, fmt.Errorf("invalid partition %q (expected contiguous|strided)", s)
	}
}

type options struct {
	workers   int
	partition Partition
	minChunk  int
	kernel    *kernel.Entry
}

// Option configures an Executor.
type Option func(*options)

// WithWorkers caps the number of goroutines per call. n <= 0 selects
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithPartition selects the partition scheme.
func WithPartition(p Partition) Option {
	return func(o *options) { o.partition = p }
}

// WithMinChunk sets the minimum number of indices per worker. n <= 1 lets
// every index become its own chunk when enough workers are available.
func WithMinChunk(n int) Option {
	return func(o *options) { o.minChunk = n }
}

// WithKernel pins the inner loop. A nil entry keeps the registry's choice.
func WithKernel(e *kernel.Entry) Option {
	return func(o *options) { o.kernel = e }
}

// Executor runs SAXPY updates with a fixed worker count, partition scheme and
// kernel. An Executor holds no per-call state and is safe for concurrent use
// on disjoint vectors.
type Executor struct {
	workers   int
	partition Partition
	minChunk  int
	kern      *kernel.Entry
}

// NewExecutor builds an Executor. Without options it uses GOMAXPROCS workers,
// contiguous partitioning, DefaultMinChunk and the best registered kernel.
func NewExecutor(opts ...Option) *Executor {
	o := options{minChunk: DefaultMinChunk}
	for _, fn := range opts {
		fn(&o)
	}

	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.minChunk < 1 {
		o.minChunk = 1
	}
	if o.kernel == nil {
		k, err := kernel.Global.ByName(kernel.Auto)
		if err != nil {
			panic(err)
		}
		o.kernel = k
	}

	return &Executor{
		workers:   o.workers,
		partition: o.partition,
		minChunk:  o.minChunk,
		kern:      o.kernel,
	}
}

// Workers returns the maximum number of goroutines per call.
func (e *Executor) Workers() int { return e.workers }

// Partition returns the partition scheme.
func (e *Executor) Partition() Partition { return e.partition }

// MinChunk returns the minimum number of indices per worker.
func (e *Executor) MinChunk() int { return e.minChunk }

// Kernel returns the name of the inner loop in use.
func (e *Executor) Kernel() string { return e.kern.Name }

// Plan reports how many workers an update of n elements dispatches.
// Zero means the call returns without running anything.
func (e *Executor) Plan(n int) int {
	return planWorkers(n, e.workers, e.minChunk)
}

// Update computes y[i] = a*x[i] + y[i] for every i in [0, n) and returns once
// every element is written.
//
// x and y must both hold at least n elements. They are resliced to n once up
// front and the inner loops run without per-element bounds checks. A buffer
// whose capacity is below n panics at the reslice; any other short buffer is
// undefined behavior.
//
// Workers own disjoint index sets, so no locks are taken. x is never written.
// a == 0 returns immediately, leaving y untouched.
func (e *Executor) Update(n int, a float32, x, y []float32) {
	if n <= 0 || a == 0 {
		return
	}

	x, y = x[:n], y[:n]

	switch e.partition {
	case PartitionStrided:
		axpy := e.kern.AxpyStrided
		stridedFor(n, e.workers, e.minChunk, func(start, stride int) {
			axpy(y, a, x, start, stride)
		})
	default:
		axpy := e.kern.Axpy
		parallelFor(n, e.workers, e.minChunk, func(lo, hi int) {
			axpy(y[lo:hi], a, x[lo:hi])
		})
	}
}

// Fill writes the deterministic fixture x[i] = 0.5*i, y[i] = 0.2*i over the
// common length of x and y, partitioned the same way as Update.
func (e *Executor) Fill(x, y []float32) {
	n := min(len(x), len(y))
	if n == 0 {
		return
	}

	x, y = x[:n], y[:n]

	switch e.partition {
	case PartitionStrided:
		stridedFor(n, e.workers, e.minChunk, func(start, stride int) {
			for i := start; i < n; i += stride {
				x[i], y[i] = fixtureX*float32(i), fixtureY*float32(i)
			}
		})
	default:
		parallelFor(n, e.workers, e.minChunk, func(lo, hi int) {
			fillRange(x[lo:hi], y[lo:hi], lo)
		})
	}
}

const (
	fixtureX float32 = 0.5
	fixtureY float32 = 0.2
)

func fillRange(x, y []float32, offset int) {
	y = y[:len(x)]
	for i := range x {
		f := float32(offset + i)
		x[i] = fixtureX * f
		y[i] = fixtureY * f
	}
}

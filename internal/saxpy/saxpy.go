// Package saxpy implements the single-precision update y = a*x + y over a
// pair of float32 vectors, split across goroutines.
//
// The decomposition is the whole concurrency story: each worker owns a
// disjoint set of indices of y and only reads the matching indices of x, so
// the update needs no locks or atomics. The result is bit-identical for every
// worker count, partition scheme and kernel.
package saxpy

import "sync/atomic"

var defaultExecutor atomic.Pointer[Executor]

// Default returns the package-level Executor used by Update and Fill. It is
// created on first use with NewExecutor().
func Default() *Executor {
	if e := defaultExecutor.Load(); e != nil {
		return e
	}

	defaultExecutor.CompareAndSwap(nil, NewExecutor())

	return defaultExecutor.Load()
}

// SetDefault replaces the package-level Executor. A nil e restores the
// built-in default on next use.
func SetDefault(e *Executor) {
	defaultExecutor.Store(e)
}

// Update runs Default().Update.
func Update(n int, a float32, x, y []float32) {
	Default().Update(n, a, x, y)
}

// Fill runs Default().Fill.
func Fill(x, y []float32) {
	Default().Fill(x, y)
}

// Reference is the single-goroutine form of Update with the same per-element
// expression. It is the oracle the parallel paths are checked against.
func Reference(n int, a float32, x, y []float32) {
	if n <= 0 || a == 0 {
		return
	}

	x, y = x[:n], y[:n]
	for i := range y {
		y[i] = float32(a*x[i]) + y[i]
	}
}

// Package testutil provides float32 comparison helpers shared by tests.
package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceBitEqual fails tb unless got and want have the same length and
// identical bit patterns at every index. NaN payloads and signed zeros count.
func RequireSliceBitEqual(tb testing.TB, got, want []float32) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Float32bits(got[i]) != math.Float32bits(want[i]) {
			tb.Fatalf("index %d: got %v (%#08x), want %v (%#08x)",
				i, got[i], math.Float32bits(got[i]), want[i], math.Float32bits(want[i]))
		}
	}
}

// RequireSliceNearlyEqual fails tb if got and want differ in length or if any
// element pair is further apart than eps relative to max(1, |want|).
func RequireSliceNearlyEqual(tb testing.TB, got, want []float32, eps float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		g, w := float64(got[i]), float64(want[i])
		diff := math.Abs(g - w)
		if diff > eps*math.Max(1, math.Abs(w)) {
			tb.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// MaxAbsDiff returns the largest absolute elementwise difference.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}

	maxDiff := 0.0
	for i := range a {
		d := math.Abs(float64(a[i]) - float64(b[i]))
		if d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff, nil
}

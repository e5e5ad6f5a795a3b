package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	got, err := MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 2})
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if got != 1 {
		t.Errorf("MaxAbsDiff() = %v; want 1", got)
	}

	if _, err := MaxAbsDiff([]float32{1}, nil); err == nil {
		t.Error("MaxAbsDiff() with mismatched lengths: want error")
	}
}

func TestRequireSliceBitEqual_Passes(t *testing.T) {
	nan := float32(math.NaN())
	RequireSliceBitEqual(t, []float32{0, 1, nan}, []float32{0, 1, nan})
}

func TestRequireSliceNearlyEqual_Passes(t *testing.T) {
	RequireSliceNearlyEqual(t, []float32{1, 1000}, []float32{1.0000001, 1000.0001}, 1e-6)
}

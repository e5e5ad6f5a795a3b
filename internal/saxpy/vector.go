package saxpy

import (
	"errors"
	"fmt"
	"math"
)

// MaxLen is the largest vector Alloc hands out.
const MaxLen = math.MaxInt32

var (
	// ErrInvalidLength reports a negative vector length.
	ErrInvalidLength = errors.New("saxpy: invalid vector length")
	// ErrAllocation reports that a vector could not be allocated.
	ErrAllocation = errors.New("saxpy: allocation failed")
)

// Alloc returns a zeroed vector of n elements.
func Alloc(n int) (v []float32, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	if n > MaxLen {
		return nil, fmt.Errorf("%w: %d elements exceeds limit %d", ErrAllocation, n, MaxLen)
	}

	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("%w: %d elements: %v", ErrAllocation, n, r)
		}
	}()

	return make([]float32, n), nil
}

// WithPair allocates x and y of n elements each and passes them to fn.
// If either allocation fails fn is not called. The buffers belong to WithPair;
// fn must not keep them after it returns.
func WithPair(n int, fn func(x, y []float32) error) error {
	x, err := Alloc(n)
	if err != nil {
		return fmt.Errorf("allocate x: %w", err)
	}

	y, err := Alloc(n)
	if err != nil {
		return fmt.Errorf("allocate y: %w", err)
	}

	return fn(x, y)
}

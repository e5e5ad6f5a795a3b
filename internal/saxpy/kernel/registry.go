// Package kernel holds the per-chunk SAXPY inner loops and the registry used
// to pick one of them at runtime.
//
// A kernel only ever sees one worker's share of the index range. Every
// registered variant computes the identical per-element expression
// float32(a*x[i]) + y[i], so switching kernels never changes results; it only
// changes how the loop is scheduled on the CPU.
package kernel

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Auto is the kernel name that defers the choice to Lookup.
const Auto = "auto"

// Entry is one registered kernel variant.
type Entry struct {
	// Name identifies the variant, e.g. "generic" or "unrolled4".
	Name string

	// SIMDLevel is the instruction set the variant requires.
	SIMDLevel cpu.SIMDLevel

	// Priority orders compatible variants; higher wins.
	Priority int

	// Tuned variants are skipped when the caller forces generic code paths.
	Tuned bool

	// Axpy computes y[i] = a*x[i] + y[i] for every i < len(y).
	// len(x) must be at least len(y).
	Axpy func(y []float32, a float32, x []float32)

	// AxpyStrided computes the same update for i = start, start+stride, ...
	// while i < len(y).
	AxpyStrided func(y []float32, a float32, x []float32, start, stride int)
}

// Registry manages kernel variants. The zero value is ready to use.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	sorted  bool
}

// Global is the registry populated by this package's init.
var Global = &Registry{}

// Register adds a variant. Registrations should complete before the first Lookup.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	r.sorted = false
}

// Lookup returns the highest-priority variant supported by features, or nil
// when nothing compatible is registered.
func (r *Registry) Lookup(features cpu.Features) *Entry {
	r.sortOnce()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		e := &r.entries[i]
		if e.Tuned && features.ForceGeneric {
			continue
		}
		if cpu.Supports(features, e.SIMDLevel) {
			return e
		}
	}

	return nil
}

// ByName returns the variant registered under name (case-insensitive).
// The name "auto" resolves through Lookup with the detected CPU features.
func (r *Registry) ByName(name string) (*Entry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == Auto {
		e := r.Lookup(cpu.DetectFeatures())
		if e == nil {
			return nil, fmt.Errorf("kernel: no compatible kernel registered")
		}
		return e, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if r.entries[i].Name == name {
			return &r.entries[i], nil
		}
	}

	return nil, fmt.Errorf("kernel: unknown kernel %q (expected %s)", name, strings.Join(r.namesLocked(), "|"))
}

// Names lists registered variant names, highest priority first.
func (r *Registry) Names() []string {
	r.sortOnce()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

// Reset clears all entries. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.entries)+1)
	names = append(names, Auto)
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

func (r *Registry) sortOnce() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sorted {
		return
	}
	slices.SortStableFunc(r.entries, func(a, b Entry) int {
		return b.Priority - a.Priority
	})
	r.sorted = true
}

package saxpy

import "sync"

// planWorkers returns how many goroutines a range of n indices is split
// across, given an upper bound and a minimum share per worker.
func planWorkers(n, maxWorkers, minChunk int) int {
	if n <= 0 {
		return 0
	}

	w := maxWorkers
	if w < 1 {
		w = 1
	}

	if minChunk > 1 {
		w = min(w, (n+minChunk-1)/minChunk)
	}

	return min(w, n)
}

// parallelFor splits [0, n) into contiguous chunks and runs fn on each chunk
// in its own goroutine. Chunks never overlap and together cover [0, n).
// A single chunk runs on the calling goroutine.
func parallelFor(n, maxWorkers, minChunk int, fn func(lo, hi int)) {
	w := planWorkers(n, maxWorkers, minChunk)
	if w == 0 {
		return
	}

	if w == 1 {
		fn(0, n)
		return
	}

	chunk := (n + w - 1) / w
	var wg sync.WaitGroup

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}

	wg.Wait()
}

// stridedFor runs fn(start, stride) for start in [0, stride), one goroutine
// each. Worker start visits start, start+stride, ... which partitions [0, n)
// without overlap.
func stridedFor(n, maxWorkers, minChunk int, fn func(start, stride int)) {
	w := planWorkers(n, maxWorkers, minChunk)
	if w == 0 {
		return
	}

	if w == 1 {
		fn(0, 1)
		return
	}

	var wg sync.WaitGroup
	wg.Add(w)

	for start := range w {
		go func(start int) {
			defer wg.Done()
			fn(start, w)
		}(start)
	}

	wg.Wait()
}

// Package parallel runs pure per-index functions across goroutines. Callers
// partition their output by index, so no locking is needed.
package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var workers atomic.Int64

// SetWorkers caps the number of goroutines used by For and Rows. Zero or
// negative restores GOMAXPROCS.
func SetWorkers(n int) {
	workers.Store(int64(n))
}

// Workers returns the current goroutine limit.
func Workers() int {
	if n := int(workers.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// For calls fn(i) for every i in [0, n). Indices are split into contiguous
// chunks, one chunk per goroutine at a time. For returns after every call
// has finished.
func For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	w := Workers()
	if w == 1 || n == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	// A few chunks per worker keeps uneven rows balanced.
	chunk := n / (w * 4)
	if chunk < 1 {
		chunk = 1
	}

	var g errgroup.Group
	g.SetLimit(w)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Rows calls fn(y) for every row of an image of the given height.
func Rows(height int, fn func(y int)) {
	For(height, fn)
}

// Package parallel spreads row and column work of the encoders and scalers
// across CPU cores.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Rows splits [0, n) into one contiguous chunk per CPU core and runs fn on
// each chunk concurrently. When n is at most threshold, fn runs once on the
// whole range in the calling goroutine.
//
// fn must only write to rows inside its own range.
func Rows(n, threshold int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if n <= threshold {
		fn(0, n)
		return
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// Each calls fn(i) for every i in [0, n) with at most one goroutine per CPU
// core, and returns the first error. Below threshold the calls run
// sequentially in order and stop at the first error.
func Each(n, threshold int, fn func(i int) error) error {
	if n <= threshold {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

// Package parallel provides the worker pool that fans a render out
// across CPU cores.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// bandsPerWorker controls how finely RunBands splits its range. A few
// bands per worker evens out rows of unequal cost without paying
// per-row scheduling.
const bandsPerWorker = 4

// WorkerPool is a pool of long-lived goroutines for data-parallel
// evaluation over scanline bands.
//
// Every pixel of a render is independent, so the only scheduling
// concern is fan-out: split the row range into contiguous bands, hand
// each band to a worker, and wait. Workers persist across renders; a
// backend creates one pool at Init and reuses it for every document.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queue carries band closures to the workers.
	queue chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// Workers start immediately and wait for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*bandsPerWorker),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for w := 0; w < workers; w++ {
		go p.worker()
	}
	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting.
			for {
				select {
				case work := <-p.queue:
					work()
				default:
					return
				}
			}

		case work := <-p.queue:
			work()
		}
	}
}

// RunBands splits [0, n) into contiguous bands and calls fn for each
// band concurrently. It blocks until every band has finished and
// returns the error of the lowest-numbered band that failed, so the
// reported error does not depend on scheduling order.
//
// If the pool has been closed, the bands run on the calling goroutine.
func (p *WorkerPool) RunBands(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}

	k := p.workers * bandsPerWorker
	if k > n {
		k = n
	}
	errs := make([]error, k)

	if !p.running.Load() {
		for i := 0; i < k; i++ {
			errs[i] = fn(i*n/k, (i+1)*n/k)
		}
		return firstError(errs)
	}

	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		lo, hi := i*n/k, (i+1)*n/k
		slot := &errs[i]
		work := func() {
			defer wg.Done()
			*slot = fn(lo, hi)
		}
		select {
		case p.queue <- work:
		case <-p.done:
			// Pool closed mid-submit; run the band inline.
			work()
		}
	}
	wg.Wait()

	return firstError(errs)
}

// firstError returns the first non-nil error in band order.
func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Close gracefully shuts down the pool. It stops accepting new work,
// finishes any queued bands, and then stops all workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

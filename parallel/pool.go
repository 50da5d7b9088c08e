package parallel

import (
	"errors"
	"runtime"
	"sync"
)

type (
	// Task is a unit of work; a non-nil error marks it failed.
	Task       func() error
	WorkerFunc func(Task)
	WaitFunc   func(done bool) error
	CancelFunc func()
)

// Pool runs tasks on a fixed number of workers and collects their errors.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	errs   []error
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start returns a pool with numWorkers workers, GOMAXPROCS if numWorkers < 1.
// A single worker pool runs every task inline in Do.
//
// Wait(true) closes the pool and blocks until all submitted tasks finished;
// Wait(false) only returns the errors gathered so far. Do must not be called
// after the pool is closed.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = func(task Task) {
		pool.run(task)
	}
	pool.Wait = func(bool) error {
		return pool.err()
	}
	pool.Cancel = func() {}

	if numWorkers > 1 {
		workChan := make(chan Task, numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for task := range workChan {
					pool.run(task)
				}
			})
		}

		pool.Do = func(task Task) {
			workChan <- task
		}

		pool.Wait = func(done bool) error {
			if done {
				pool.Cancel()
				pool.wg.Wait()
			}
			return pool.err()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

func (p *Pool) run(task Task) {
	if err := task(); err != nil {
		p.mu.Lock()
		p.errs = append(p.errs, err)
		p.mu.Unlock()
	}
}

func (p *Pool) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}

// Failed returns the number of tasks that returned an error so far.
func (p *Pool) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.errs)
}

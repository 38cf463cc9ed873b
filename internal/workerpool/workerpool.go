// Package workerpool runs independent jobs on a fixed number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Job is a unit of work submitted to the Pool.
type Job func(ctx context.Context) error

// ErrPoolClosed is returned if a Submit is attempted after Wait.
var ErrPoolClosed = errors.New("worker pool closed")

// Pool runs jobs using a fixed number of goroutines and keeps the first
// error any job returned.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	closeMu sync.Mutex
	closed  bool

	errOnce sync.Once
	err     error
}

// New creates a pool with the given number of workers and queue capacity.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the workers. They stop when ctx is done or the queue is
// drained after Wait.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					p.fail(ctx.Err())
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := job(ctx); err != nil {
						p.fail(err)
					}
				}
			}
		}()
	}
}

// Submit enqueues a job. It blocks while the queue is full.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops accepting jobs, waits for the workers and returns the first
// job error.
func (p *Pool) Wait() error {
	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.closeMu.Unlock()
	p.wg.Wait()
	return p.err
}

func (p *Pool) fail(err error) {
	p.errOnce.Do(func() { p.err = err })
}

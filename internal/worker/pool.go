// worker/pool.go
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("worker pool closed")

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs jobs on a fixed number of goroutines in FIFO order. With one
// worker it serializes every job submitted to it.
type Pool[T any] struct {
	jobs chan jobWrapper[T]
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type jobWrapper[T any] struct {
	id     string
	fn     Job[T]
	result chan Result[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}

	p := &Pool[T]{
		jobs: make(chan jobWrapper[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		// result is buffered so an abandoned job never blocks the worker
		job.result <- Result[T]{
			JobID:  job.id,
			Output: output,
		}
	}
}

// Submit queues fn and returns the channel its single result will be
// delivered on. It blocks while the queue is full, until ctx is done.
func (p *Pool[T]) Submit(ctx context.Context, id string, fn Job[T]) (<-chan Result[T], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}

	result := make(chan Result[T], 1)
	select {
	case p.jobs <- jobWrapper[T]{id: id, fn: fn, result: result}:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending reports how many jobs are queued but not yet started.
func (p *Pool[T]) Pending() int {
	return len(p.jobs)
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}

package utils

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

const (
	MaxWorkers       = 32
	WorkerBufferSize = 4
)

// WorkerPool runs handler over submitted tasks on a fixed number of
// goroutines and collects every error the handler returns.
type WorkerPool[T any] struct {
	workers   int
	ctx       context.Context
	wg        sync.WaitGroup
	taskQueue chan T
	handler   func(T) error

	errMu sync.Mutex
	errs  []error
}

func NewWorkerPool[T any](ctx context.Context, workers int, handler func(T) error) *WorkerPool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &WorkerPool[T]{
		workers:   workers,
		ctx:       ctx,
		taskQueue: make(chan T, workers*WorkerBufferSize),
		handler:   handler,
	}
}

func (p *WorkerPool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			if err := p.handler(task); err != nil {
				p.errMu.Lock()
				p.errs = append(p.errs, err)
				p.errMu.Unlock()
			}
		}
	}
}

// Submit queues a task. It drops the task once the context is cancelled.
func (p *WorkerPool[T]) Submit(task T) {
	select {
	case <-p.ctx.Done():
		return
	case p.taskQueue <- task:
	}
}

// Stop closes the queue, waits for in-flight tasks and returns the joined
// handler errors (plus the context error if the pool was cancelled).
func (p *WorkerPool[T]) Stop() error {
	close(p.taskQueue)
	p.wg.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	errs := p.errs
	if err := p.ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

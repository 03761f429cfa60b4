// Package worker runs fire-and-forget side effects (notification records,
// transactional email) off the request path. Task failures are logged and
// never propagated back to the request that submitted them.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Worker struct {
	tasks   chan Task
	log     *zap.Logger
	wg      sync.WaitGroup
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// New builds a worker with the given queue capacity. Start must be called
// before Submit has any effect.
func New(log *zap.Logger, capacity int) *Worker {
	if capacity <= 0 {
		capacity = 64
	}
	return &Worker{
		tasks:   make(chan Task, capacity),
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Start launches n goroutines draining the queue.
func (w *Worker) Start(n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.run()
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	for task := range w.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := task.Run(ctx); err != nil {
			w.log.Error("background task failed",
				zap.String("task", task.Name),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Submit enqueues a task without blocking. When the queue is full or the
// worker already stopped, the task is dropped and logged; callers never
// wait on it.
func (w *Worker) Submit(task Task) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("background task dropped, worker stopped", zap.String("task", task.Name))
		return false
	}
	select {
	case w.tasks <- task:
		return true
	default:
		w.log.Warn("background task dropped, queue full", zap.String("task", task.Name))
		return false
	}
}

// Stop closes the queue and waits for in-flight tasks, up to ctx's deadline.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.tasks)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

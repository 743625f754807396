package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job is a unit of fire-and-forget work. Its error is logged and discarded.
type Job func(ctx context.Context) error

var (
	// ErrClosed is returned when submitting after Close
	ErrClosed = errors.New("executor closed")
	// ErrQueueFull is returned when the queue has no room; the job is dropped
	ErrQueueFull = errors.New("executor queue full")
)

type task struct {
	id   string
	name string
	job  Job
}

// Executor runs submitted jobs on a fixed set of workers. Submit never
// blocks; jobs that do not fit in the queue are dropped.
type Executor struct {
	tasks   chan task
	wg      sync.WaitGroup
	workers int
	timeout time.Duration
	logger  *zap.Logger

	closeMu sync.Mutex
	closed  bool
}

// New creates an executor. timeout bounds each job; zero means no per-job limit.
func New(workers, queue int, timeout time.Duration, logger *zap.Logger) *Executor {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		tasks:   make(chan task, queue),
		workers: workers,
		timeout: timeout,
		logger:  logger.Named("background"),
	}
}

// Start launches the workers. Cancelling ctx aborts running jobs and stops
// the workers without draining the queue.
func (e *Executor) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-e.tasks:
					if !ok {
						return
					}
					e.run(ctx, t)
				}
			}
		}()
	}
}

// Submit queues a job and returns its task id
func (e *Executor) Submit(name string, job Job) (string, error) {
	e.closeMu.Lock()
	defer e.closeMu.Unlock()

	if e.closed {
		e.logger.Warn("dropping task, executor closed", zap.String("task", name))
		return "", ErrClosed
	}

	t := task{id: uuid.NewString(), name: name, job: job}
	select {
	case e.tasks <- t:
		e.logger.Debug("task queued", zap.String("task", name), zap.String("task_id", t.id))
		return t.id, nil
	default:
		e.logger.Warn("dropping task, queue full", zap.String("task", name), zap.String("task_id", t.id))
		return "", ErrQueueFull
	}
}

// Close stops accepting jobs, runs what is already queued and waits for the
// workers to exit.
func (e *Executor) Close() {
	e.closeMu.Lock()
	if e.closed {
		e.closeMu.Unlock()
		return
	}
	e.closed = true
	close(e.tasks)
	e.closeMu.Unlock()
	e.wg.Wait()
}

func (e *Executor) run(ctx context.Context, t task) {
	log := e.logger.With(zap.String("task", t.name), zap.String("task_id", t.id))

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := e.safeRun(ctx, t.job); err != nil {
		log.Warn("background task failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	log.Debug("background task done", zap.Duration("elapsed", time.Since(start)))
}

func (e *Executor) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job(ctx)
}

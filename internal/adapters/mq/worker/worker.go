// Package worker runs resume processing tasks taken off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // workers per CPU when no count is given

// Task is what workers read off the queue.
type Task = model.ResumeTask

// Processor handles one task. Returned errors are logged and counted; the
// processor is responsible for recording failure state itself.
type Processor interface {
	Process(ctx context.Context, t Task) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, t Task) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, t Task) error { return f(ctx, t) } //nolint:gocritic // Task is passed by value

// Queue is the consumer side of the task queue.
type Queue interface {
	Dequeue() <-chan Task
	Len() int
}

// Worker drains tasks until the queue channel closes or ctx ends.
type Worker struct {
	queue     Queue
	processor Processor
	name      string
	logger    logger.Logger
	done      chan struct{}
}

// NewWorker creates a worker.
func NewWorker(queue Queue, processor Processor, opts ...Option) *Worker {
	w := &Worker{
		queue:     queue,
		processor: processor,
		name:      "worker",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named("worker")
	}
	w.logger = w.logger.With(logger.String("worker", w.name))
	return w
}

// Run processes tasks until the queue closes or ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			w.handle(ctx, task)
		}
	}
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) handle(ctx context.Context, task Task) { //nolint:gocritic // Task is passed by value
	metrics.RecordQueueDequeue()
	metrics.UpdateQueueSize(w.queue.Len())
	if !task.EnqueuedAt.IsZero() {
		metrics.RecordQueueWait(float64(time.Since(task.EnqueuedAt).Microseconds()) / 1000)
	}

	metrics.IncWorkerActive()
	start := time.Now()
	defer func() {
		metrics.DecWorkerActive()
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := w.process(ctx, task); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process_error")
		w.logger.Error(ctx, "task failed",
			logger.String("resume_id", task.ResumeID),
			logger.String("user_id", task.UserID),
			logger.Error(err),
		)
		return
	}
	w.logger.Debug(ctx, "task done",
		logger.String("resume_id", task.ResumeID),
		logger.Duration("took", time.Since(start)),
	)
}

// process isolates processor panics so one bad document cannot kill a worker.
func (w *Worker) process(ctx context.Context, task Task) (err error) { //nolint:gocritic // Task is passed by value
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing %s: %v", task.ResumeID, r)
		}
	}()
	return w.processor.Process(ctx, task)
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	logger  logger.Logger

	cancel context.CancelFunc
	once   sync.Once
}

// NewPool creates count workers; count < 1 means two per CPU.
func NewPool(count int, queue Queue, processor Processor, opts ...Option) *Pool {
	if count < 1 {
		count = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{workers: make([]*Worker, count)}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewWorker(queue, processor, wopts...)
	}
	p.logger = logger.Named("worker-pool")
	metrics.UpdateWorkerCount(count)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. The workers stop when ctx ends or the queue
// is closed and drained.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for _, w := range p.workers {
		go w.Run(runCtx)
	}
}

// Shutdown waits for the workers to drain a closed queue. When ctx expires
// first, in-flight work is canceled and the error reports the timeout. The
// caller closes the queue before calling Shutdown.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			err = fmt.Errorf("worker pool shutdown: %w", ctx.Err())
		}
		if err != nil {
			break
		}
	}
	p.once.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
	})
	return err
}

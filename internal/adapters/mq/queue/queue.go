// Package queue holds resume processing tasks between the upload handler and
// the workers.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/jobmatch/internal/domain/model"
	"github.com/okian/jobmatch/pkg/metrics"
)

const defaultCapacity = 1024

// Task is the payload flowing through the queue.
type Task = model.ResumeTask

// Queue offers non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a task without blocking. It fails with ErrFull when the
	// backlog is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, t Task) error

	// Dequeue returns the channel workers receive from. It is closed by Close
	// once drained.
	Dequeue() <-chan Task

	Len() int
	Cap() int
	Close() error
}

// InMemoryQueue is a Queue over a buffered channel.
type InMemoryQueue struct {
	tasks    chan Task
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue; the default capacity is 1024.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.tasks = make(chan Task, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue stamps the task with its enqueue time and buffers it.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error { //nolint:gocritic // Task is sent by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}

	select {
	case q.tasks <- t:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.tasks))
		return nil
	default:
		metrics.RecordQueueRejected()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns the receive side of the buffer.
func (q *InMemoryQueue) Dequeue() <-chan Task {
	return q.tasks
}

// Len returns the current backlog.
func (q *InMemoryQueue) Len() int {
	return len(q.tasks)
}

// Cap returns the configured capacity.
func (q *InMemoryQueue) Cap() int {
	return q.capacity
}

// Close stops accepting tasks. Buffered tasks stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.tasks)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// internal/storage/queue.go
package storage

import (
	"context"
	"sync"
)

// Writer is the write half of the gateway
type Writer interface {
	WriteFile(path string, data []byte) error
}

type writeJob struct {
	data []byte
	done chan error
}

// WriteQueue serializes writes per path. Writes to different paths run
// independently; writes to the same path land in the order they were queued.
type WriteQueue struct {
	writer Writer
	mu     sync.Mutex
	queues map[string][]writeJob
	idle   map[string]chan struct{} // closed when the path drains
}

// NewWriteQueue creates a WriteQueue on top of w
func NewWriteQueue(w Writer) *WriteQueue {
	return &WriteQueue{
		writer: w,
		queues: make(map[string][]writeJob),
		idle:   make(map[string]chan struct{}),
	}
}

// Enqueue schedules data to be written to path. The returned channel
// receives the write result and is then closed.
func (q *WriteQueue) Enqueue(path string, data []byte) <-chan error {
	job := writeJob{
		data: append([]byte(nil), data...),
		done: make(chan error, 1),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	pending, busy := q.queues[path]
	q.queues[path] = append(pending, job)
	if !busy {
		q.idle[path] = make(chan struct{})
		go q.drain(path)
	}

	return job.done
}

// drain writes queued jobs for path until none are left
func (q *WriteQueue) drain(path string) {
	for {
		q.mu.Lock()
		pending := q.queues[path]
		if len(pending) == 0 {
			delete(q.queues, path)
			close(q.idle[path])
			delete(q.idle, path)
			q.mu.Unlock()
			return
		}
		job := pending[0]
		q.queues[path] = pending[1:]
		q.mu.Unlock()

		job.done <- q.writer.WriteFile(path, job.data)
		close(job.done)
	}
}

// Wait blocks until every write queued for path so far has completed
func (q *WriteQueue) Wait(ctx context.Context, path string) error {
	q.mu.Lock()
	idle, busy := q.idle[path]
	q.mu.Unlock()
	if !busy {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush blocks until every write queued so far, on any path, has completed
func (q *WriteQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	waiting := make([]chan struct{}, 0, len(q.idle))
	for _, idle := range q.idle {
		waiting = append(waiting, idle)
	}
	q.mu.Unlock()

	for _, idle := range waiting {
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

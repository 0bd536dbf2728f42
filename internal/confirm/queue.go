package confirm

import (
	"sync"
)

// jobQueue is a thread-safe FIFO queue of hash jobs.
//
// The queue is unbounded so a walker can submit an entire tree without
// blocking on slow hash workers.
//
// Thread-safety covers both ends: the phase driver enqueues while N workers
// dequeue concurrently. Dequeue is mutually exclusive, so no job is ever
// handed to more than one worker.
//
// The queue uses a channel for signaling so idle workers can wait for work
// or context cancellation without spinning.
type jobQueue struct {
	mu     sync.Mutex
	jobs   []HashJob
	closed bool
	signal chan struct{} // Signals job availability (buffered, size 1)
}

// newJobQueue creates an empty job queue.
func newJobQueue() *jobQueue {
	return &jobQueue{
		jobs:   make([]HashJob, 0, 64), // Pre-allocate for typical trees
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a job to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *jobQueue) Enqueue(j HashJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.jobs = append(q.jobs, j)

	// Signal availability (non-blocking - buffer of 1 coalesces multiple signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (HashJob{}, false) if the queue is empty.
func (q *jobQueue) TryDequeue() (HashJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return HashJob{}, false
	}

	j := q.jobs[0]

	// Nil out the slot so the backing array does not retain path strings
	// for the lifetime of the run.
	q.jobs[0] = HashJob{}

	if len(q.jobs) == 1 {
		// Last element - reset to empty slice with original capacity
		q.jobs = q.jobs[:0]
	} else {
		q.jobs = q.jobs[1:]
	}

	return j, true
}

// Wait returns a channel that signals when jobs may be available.
// Use with select for context-aware waiting:
//
//	select {
//	case <-ctx.Done():
//	    return
//	case <-q.Wait():
//	    // Try TryDequeue
//	}
func (q *jobQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *jobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Closed reports whether Close has been called.
func (q *jobQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close signals that no more jobs will be enqueued.
// Wakes all blocked workers by closing the signal channel.
func (q *jobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return // Already closed
	}

	q.closed = true
	close(q.signal) // Wakes all waiters
}

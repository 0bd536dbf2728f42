package confirm

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// pool runs a fixed set of hash workers over a shared job queue.
//
// Each worker repeatedly dequeues one HashJob, invokes the Hasher, and
// publishes exactly one HashResult before taking the next job. Dequeue is
// mutually exclusive (at-most-once per job) and every submitted job yields a
// result (exactly-once, barring process crash). Results arrive on an
// unordered channel: the aggregator must not assume submission order.
//
// The worker count bounds hashing concurrency; the queue itself is
// unbounded. Workers idle between phases and terminate when the queue is
// closed and drained, or when the context is cancelled.
type pool struct {
	hasher   Hasher
	progress ProgressSink
	queue    *jobQueue
	results  chan HashResult
	wg       sync.WaitGroup

	submitted atomic.Int64
	published atomic.Int64
}

// newPool creates a pool with workers goroutines. The caller must ensure
// workers >= 1.
func newPool(ctx context.Context, workers int, hasher Hasher, progress ProgressSink) *pool {
	p := &pool{
		hasher:   hasher,
		progress: progress,
		queue:    newJobQueue(),
		results:  make(chan HashResult, workers),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(ctx)
	}
	return p
}

// Submit enqueues one hashing job. Returns false after Close.
func (p *pool) Submit(j HashJob) bool {
	if !p.queue.Enqueue(j) {
		return false
	}
	p.submitted.Add(1)
	return true
}

// Results returns the channel workers publish on. The channel carries
// exactly one HashResult per submitted job, in completion order.
func (p *pool) Results() <-chan HashResult {
	return p.results
}

// Drained reports whether every submitted job has published its result.
// A phase is complete only when this holds and all results are consumed.
func (p *pool) Drained() bool {
	return p.published.Load() == p.submitted.Load()
}

// Close stops the pool: no further jobs are accepted and workers exit once
// the queue is drained. Blocks until every worker has returned.
func (p *pool) Close() {
	p.queue.Close()
	p.wg.Wait()
}

// worker is the per-goroutine loop: dequeue, hash, publish, repeat.
func (p *pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		job, ok := p.queue.TryDequeue()
		if !ok {
			if p.queue.Closed() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-p.queue.Wait():
				continue
			}
		}

		digest, err := p.hasher.HashFile(job.AbsPath)
		res := HashResult{Root: job.Root, RelPath: job.RelPath, Digest: digest, Err: err}
		if err != nil {
			slog.Debug("hash failed", "root", job.Root, "path", job.RelPath, "error", err)
		}

		// One progress unit per finished job, emitted before publication so
		// the aggregator observes all units by the time it has drained the
		// phase.
		p.progress.JobDone()

		select {
		case p.results <- res:
			p.published.Add(1)
		case <-ctx.Done():
			return
		}
	}
}

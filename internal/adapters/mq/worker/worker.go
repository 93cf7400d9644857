// Package worker runs leaderboard refresh jobs in the background.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hacksphere/internal/adapters/mq/queue"
	"github.com/okian/hacksphere/pkg/logger"
	"github.com/okian/hacksphere/pkg/metrics"
)

const (
	defaultJobTimeout   = 10 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Refresher recomputes and stores the leaderboard of a job's event.
type Refresher interface {
	Refresh(ctx context.Context, job Job) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, job Job) error

func (f RefresherFunc) Refresh(ctx context.Context, job Job) error { return f(ctx, job) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes refresh jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, the queue is
	// drained after Close, or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// counters are shared by the workers of a pool.
type counters struct {
	processed atomic.Int64
	failed    atomic.Int64
	active    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue      Queue
	refresher  Refresher
	name       string
	jobTimeout time.Duration
	stats      *counters

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from q.
func NewInMemoryWorker(q Queue, r Refresher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		refresher:  r,
		name:       "worker",
		jobTimeout: defaultJobTimeout,
		stats:      &counters{},
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn(ctx, "refresh failed",
					logger.String("worker", w.name),
					logger.String("event_id", job.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker %s shutdown: %w", w.name, ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job Job) error {
	start := time.Now()
	w.stats.active.Add(1)
	defer func() {
		w.stats.active.Add(-1)
		metrics.RecordWorkerProcessingLatency(time.Since(start))
	}()

	jctx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.refresher.Refresh(jctx, job); err != nil {
		w.stats.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordRefreshJob("error")
		return fmt.Errorf("refresh %s: %w", job.EventID, err)
	}
	w.stats.processed.Add(1)
	metrics.RecordRefreshJob("ok")
	return nil
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Active    int64 `json:"active"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	stats   *counters
	logger  logger.Logger
}

// NewPool creates workerCount workers; a count below one uses NumCPU.
func NewPool(workerCount int, q Queue, r Refresher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		stats:   &counters{},
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewInMemoryWorker(q, r, append(opts, WithName("worker-"+strconv.Itoa(i)))...)
		w.stats = p.stats
		p.workers[i] = w
	}
	metrics.UpdateWorkerActiveCount(workerCount)
	return p
}

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stats returns the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Active:    p.stats.active.Load(),
		Processed: p.stats.processed.Load(),
		Failed:    p.stats.failed.Load(),
	}
}

// Shutdown closes the queue when it can be closed, lets the workers drain
// it and waits for them until ctx ends.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			timedOut++
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut > 0 {
		p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("workers", timedOut))
		return fmt.Errorf("%d workers did not stop: %w", timedOut, ctx.Err())
	}
	return nil
}

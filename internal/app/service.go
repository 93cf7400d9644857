// Package service implements the hacksphere operations the HTTP API serves:
// event and team management, submission intake with heuristic scoring,
// judge scorecards and the cached event leaderboard.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/hacksphere/internal/adapters/cache"
	"github.com/okian/hacksphere/internal/adapters/mq/queue"
	"github.com/okian/hacksphere/internal/adapters/mq/worker"
	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/domain/dedupe"
	"github.com/okian/hacksphere/internal/domain/model"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/pkg/logger"
	"github.com/okian/hacksphere/pkg/metrics"
)

const tracerName = "github.com/okian/hacksphere/internal/app"

// Scorer computes and explains the first-impression score of a submission.
type Scorer interface {
	Score(in scoring.Input) int
	Explain(in scoring.Input) scoring.Breakdown
}

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	cache   cache.Cache
	scorer  Scorer
	rubric  scoring.Rubric
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	workerCount int
	queueSize   int
	dedupeSize  int

	tracer trace.Tracer
	logger logger.Logger
	now    func() time.Time
	newID  func() string

	started   bool
	stopped   bool
	startedAt time.Time
}

// New constructs a Service. Without options it keeps everything in memory
// and does not cache leaderboards.
func New(opts ...Option) *Service {
	s := &Service{
		store:       repository.NewMemStore(),
		cache:       cache.Nop{},
		scorer:      scoring.NewHeuristic(),
		rubric:      scoring.DefaultRubric(),
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  10_000,
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.store = repository.Instrument(s.store)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start launches the background refresh workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}

	s.pool = worker.NewPool(s.workerCount, s.queue, s, worker.WithLogger(s.logger.Named("worker")))
	s.pool.Start(ctx)
	s.started = true
	s.startedAt = s.now()

	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains the refresh workers and closes the cache and the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	} else {
		_ = s.queue.Close()
	}
	if err := s.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	s.started = false

	s.logger.Info(ctx, "service stopped")
	return errors.Join(errs...)
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Rubric returns the judging rubric in force.
func (s *Service) Rubric() scoring.Rubric {
	return s.rubric
}

// Stats is a snapshot of the service for monitoring.
type Stats struct {
	Started        bool              `json:"started"`
	Uptime         string            `json:"uptime,omitempty"`
	RubricMax      int               `json:"rubric_max"`
	QueueLength    int               `json:"queue_length"`
	QueueCapacity  int               `json:"queue_capacity"`
	PendingRefresh int64             `json:"pending_refresh"`
	Workers        worker.Stats      `json:"workers"`
	Store          repository.Counts `json:"store"`
}

// GetStats returns service statistics.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	started, startedAt, pool := s.started, s.startedAt, s.pool
	s.mu.RUnlock()

	stats := Stats{
		Started:        started,
		RubricMax:      s.rubric.Max(),
		QueueLength:    s.queue.Len(),
		QueueCapacity:  s.queue.Cap(),
		PendingRefresh: s.deduper.Size(),
	}
	if started {
		stats.Uptime = s.now().Sub(startedAt).Truncate(time.Second).String()
	}
	if pool != nil {
		stats.Workers = pool.Stats()
	}
	metrics.UpdateQueueSize(stats.QueueLength)

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return stats, err
	}
	stats.Store = counts
	return stats, nil
}

// span starts a span for a service operation.
func (s *Service) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "Service."+name, trace.WithAttributes(attrs...))
}

// end records err on the span and ends it.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// invalidate drops the event's cached leaderboards and schedules a
// background refresh. Failures are logged, never returned.
func (s *Service) invalidate(ctx context.Context, eventID string) {
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		metrics.RecordCacheError("invalidate")
		s.logger.Warn(ctx, "cache invalidate failed", logger.String("event_id", eventID), logger.Error(err))
	}
	s.scheduleRefresh(ctx, eventID)
}

// scheduleRefresh queues a refresh unless one is already pending.
func (s *Service) scheduleRefresh(ctx context.Context, eventID string) {
	s.mu.RLock()
	running := s.started
	s.mu.RUnlock()
	if !running {
		return
	}
	if _, ok := s.cache.(cache.Nop); ok {
		return
	}

	if s.deduper.SeenAndRecord(ctx, eventID) {
		metrics.RecordRefreshCoalesced()
		return
	}
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), queue.Job{EventID: eventID, EnqueuedAt: s.now()}); err != nil {
		s.deduper.Unrecord(ctx, eventID)
		metrics.RecordRefreshJob("dropped")
		s.logger.Debug(ctx, "refresh not queued", logger.String("event_id", eventID), logger.Error(err))
	}
}

// Refresh recomputes and caches the pooled leaderboard of a job's event.
func (s *Service) Refresh(ctx context.Context, job worker.Job) (err error) {
	ctx, span := s.span(ctx, "Refresh", attribute.String("event.id", job.EventID))
	defer func() { end(span, err) }()

	s.deduper.Unrecord(ctx, job.EventID)
	_, _, err = s.cachedBoard(ctx, job.EventID, 0)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

// Package metrics provides Prometheus metrics for the hacksphere service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// heuristicBuckets cover the 0-100 first-impression score range.
var heuristicBuckets = prometheus.LinearBuckets(0, 10, 11) //nolint:gochecknoglobals // immutable bucket layout

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	submissionsCreated prometheus.Counter
	heuristicScore     prometheus.Histogram
	scoresSubmitted    *prometheus.CounterVec
	scoresRejected     *prometheus.CounterVec
	judgeRateLimited   prometheus.Counter

	// Leaderboard
	leaderboardReads   *prometheus.CounterVec
	leaderboardLatency prometheus.Histogram
	refreshJobs        *prometheus.CounterVec
	refreshCoalesced   prometheus.Counter
	cacheErrors        *prometheus.CounterVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // process-wide metrics manager

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hacksphere",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.submissionsCreated = m.counter("submissions_created_total", "Total number of submissions created")
	m.heuristicScore = m.histogram("submission_heuristic_score", "Distribution of first-impression heuristic scores", heuristicBuckets)
	m.scoresSubmitted = m.counterVec("scores_submitted_total", "Judge scorecards accepted, by outcome (created or replaced)", "outcome")
	m.scoresRejected = m.counterVec("scores_rejected_total", "Judge scorecards rejected, by reason", "reason")
	m.judgeRateLimited = m.counter("judge_rate_limited_total", "Score writes refused by the per-judge rate limiter")

	m.leaderboardReads = m.counterVec("leaderboard_reads_total", "Leaderboard reads by cache outcome", "cache")
	m.leaderboardLatency = m.histogram("leaderboard_compute_latency_milliseconds", "Time spent aggregating a leaderboard", m.histogramBuckets)
	m.refreshJobs = m.counterVec("leaderboard_refresh_jobs_total", "Background leaderboard refresh jobs by result", "result")
	m.refreshCoalesced = m.counter("leaderboard_refresh_coalesced_total", "Refresh jobs skipped because one was already pending for the event")
	m.cacheErrors = m.counterVec("cache_errors_total", "Leaderboard cache failures by operation", "op")

	m.queueSize = m.gauge("queue_size", "Current number of pending refresh jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum refresh queue capacity")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue failures")

	m.workerActive = m.gauge("worker_active_count", "Number of running refresh workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker job processing latency", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Total number of failed worker jobs")

	m.storeLatency = m.histogramVec("store_operation_latency_milliseconds", "Store operation latency by operation", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Store failures by operation", "op")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// RecordSubmissionCreated counts a new submission and observes its heuristic score.
func RecordSubmissionCreated(heuristic int) {
	globalManager.submissionsCreated.Inc()
	globalManager.heuristicScore.Observe(float64(heuristic))
}

// RecordScoreSubmitted counts an accepted scorecard.
func RecordScoreSubmitted(replaced bool) {
	outcome := "created"
	if replaced {
		outcome = "replaced"
	}
	globalManager.scoresSubmitted.WithLabelValues(outcome).Inc()
}

// RecordScoreRejected counts a refused scorecard.
func RecordScoreRejected(reason string) {
	globalManager.scoresRejected.WithLabelValues(reason).Inc()
}

// RecordJudgeRateLimited counts a score write refused by the rate limiter.
func RecordJudgeRateLimited() {
	globalManager.judgeRateLimited.Inc()
}

// RecordLeaderboardRead counts a leaderboard read; cache is hit, miss or bypass.
func RecordLeaderboardRead(cache string) {
	globalManager.leaderboardReads.WithLabelValues(cache).Inc()
}

// RecordLeaderboardLatency observes aggregation time.
func RecordLeaderboardLatency(d time.Duration) {
	globalManager.leaderboardLatency.Observe(millis(d))
}

// RecordRefreshJob counts a background refresh by result (ok, error, dropped).
func RecordRefreshJob(result string) {
	globalManager.refreshJobs.WithLabelValues(result).Inc()
}

// RecordRefreshCoalesced counts a refresh request folded into a pending job.
func RecordRefreshCoalesced() {
	globalManager.refreshCoalesced.Inc()
}

// RecordCacheError counts a cache failure.
func RecordCacheError(op string) {
	globalManager.cacheErrors.WithLabelValues(op).Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerProcessingLatency observes how long a worker spent on one job.
func RecordWorkerProcessingLatency(d time.Duration) {
	globalManager.workerProcessingLatency.Observe(millis(d))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordStoreOperation observes a store call and counts it as failed when err is set.
func RecordStoreOperation(op string, d time.Duration, err error) {
	globalManager.storeLatency.WithLabelValues(op).Observe(millis(d))
	if err != nil {
		globalManager.storeErrors.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry every package-level metric is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

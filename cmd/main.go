package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/hacksphere/internal/adapters/cache"
	"github.com/okian/hacksphere/internal/adapters/http/api"
	"github.com/okian/hacksphere/internal/adapters/http/site"
	"github.com/okian/hacksphere/internal/adapters/http/swagger"
	"github.com/okian/hacksphere/internal/adapters/repository"
	"github.com/okian/hacksphere/internal/adapters/repository/postgres"
	app "github.com/okian/hacksphere/internal/app"
	"github.com/okian/hacksphere/internal/config"
	"github.com/okian/hacksphere/internal/domain/scoring"
	"github.com/okian/hacksphere/pkg/logger"
	"github.com/okian/hacksphere/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	startupTimeout            = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// We collect our own system metrics instead of the default collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg); err != nil {
		log.Error(ctx, "hacksphere exited", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the service from cfg and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	svc, err := buildService(startCtx, cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Stop(stopCtx); err != nil {
			log.Error(stopCtx, "service stop failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := newHTTPServer(cfg, svc)
	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.Store),
			logger.String("cache", cfg.Cache))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

// buildService assembles the service from its configured store, cache and scoring.
func buildService(ctx context.Context, cfg *config.Config) (*app.Service, error) {
	rubric, err := scoring.NewRubric(cfg.RubricMax)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c, err := buildCache(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithStore(store),
		app.WithCache(c),
		app.WithScorer(scoring.NewHeuristic(
			scoring.WithKeywordTable(cfg.RubricKeywords),
			scoring.WithBoosts(cfg.RepoBoost, cfg.VideoBoost),
		)),
		app.WithRubric(rubric),
		app.WithWorkerCount(cfg.RefreshWorkers),
		app.WithQueueSize(cfg.RefreshQueueSize),
	), nil
}

// buildStore opens the configured persistence backend.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repository.NewMemStore(), nil
	case config.StorePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			applied, err := store.Migrate(ctx)
			if err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			logger.Get().Info(ctx, "postgres migrated", logger.Any("applied", applied))
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: store %q", config.ErrUnknownBackend, cfg.Store)
	}
}

// buildCache connects the configured leaderboard cache.
func buildCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache {
	case config.CacheNone:
		return cache.Nop{}, nil
	case config.CacheMemory:
		return cache.NewMemory(cache.WithMaxEvents(cfg.CacheMaxEvents), cache.WithTTL(cfg.CacheTTL())), nil
	case config.CacheRedis:
		c, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cache.WithRedisTTL(cfg.CacheTTL()))
		if err != nil {
			return nil, fmt.Errorf("dial redis: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: cache %q", config.ErrUnknownBackend, cfg.Cache)
	}
}

// newHTTPServer mounts the API, its docs and the landing page.
func newHTTPServer(cfg *config.Config, svc *app.Service) *http.Server {
	router := api.NewServer(svc,
		api.WithJudgeRateLimit(cfg.JudgeRateLimit, cfg.JudgeRateBurst),
		api.WithRoutes(swagger.Register),
		api.WithRoutes(site.Register),
	).Handler()

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(ctx, svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(ctx context.Context, svc *app.Service) {
	stats, err := svc.GetStats(ctx)
	if err != nil {
		logger.Get().Warn(ctx, "failed to read service stats", logger.Error(err))
		return
	}
	metrics.UpdateQueueSize(stats.QueueLength)
	metrics.UpdateQueueCapacity(stats.QueueCapacity)
}

// Package config defines service configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects where events, submissions and scores live.
	Store string `koanf:"store"`

	// PostgresDSN is the connection string of the postgres store.
	PostgresDSN string `koanf:"postgres_dsn"`

	// PostgresAutoMigrate applies pending migrations on startup.
	PostgresAutoMigrate bool `koanf:"postgres_auto_migrate"`

	// Cache selects the leaderboard cache.
	Cache string `koanf:"cache"`

	// CacheMaxEvents bounds the events held by the memory cache.
	CacheMaxEvents int `koanf:"cache_max_events"`

	// CacheTTLSeconds expires cached leaderboards.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// RefreshWorkers sets the number of background leaderboard refreshers.
	RefreshWorkers int `koanf:"refresh_workers"`

	// RefreshQueueSize bounds the pending refresh jobs.
	RefreshQueueSize int `koanf:"refresh_queue_size"`

	// RubricMax is the per-category maximum judges score up to: 10 or 25.
	RubricMax int `koanf:"rubric_max"`

	// RepoBoost and VideoBoost are added to the heuristic score when a
	// submission links a repository or a demo video.
	RepoBoost  int `koanf:"repo_boost"`
	VideoBoost int `koanf:"video_boost"`

	// RubricKeywords replaces the heuristic keyword table, bucket -> keywords.
	RubricKeywords map[string][]string `koanf:"rubric_keywords"`

	// JudgeRateLimit is the sustained score writes per second per judge;
	// zero disables limiting.
	JudgeRateLimit float64 `koanf:"judge_rate_limit"`
	JudgeRateBurst int     `koanf:"judge_rate_burst"`
}

// New creates a Config with defaults. Context is accepted first to keep the
// package convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		Store:            StoreMemory,
		Cache:            CacheMemory,
		CacheMaxEvents:   1024,
		CacheTTLSeconds:  300,
		RedisAddr:        "localhost:6379",
		RefreshWorkers:   runtime.NumCPU(),
		RefreshQueueSize: 1024,
		RubricMax:        10,
		RepoBoost:        5,
		VideoBoost:       5,
		JudgeRateLimit:   5,
		JudgeRateBurst:   10,
	}
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !slices.Contains([]string{"text", "json"}, c.LogFormat):
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case !slices.Contains([]string{StoreMemory, StorePostgres}, c.Store):
		return fmt.Errorf("%w: store must be memory or postgres, got %q", ErrUnknownBackend, c.Store)
	case c.Store == StorePostgres && c.PostgresDSN == "":
		return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
	case !slices.Contains([]string{CacheNone, CacheMemory, CacheRedis}, c.Cache):
		return fmt.Errorf("%w: cache must be none, memory or redis, got %q", ErrUnknownBackend, c.Cache)
	case c.Cache == CacheRedis && c.RedisAddr == "":
		return fmt.Errorf("%w: redis_addr is required for the redis cache", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.RefreshWorkers < 1:
		return fmt.Errorf("%w: refresh_workers must be at least 1", ErrInvalidConfig)
	case c.RefreshQueueSize < 1:
		return fmt.Errorf("%w: refresh_queue_size must be at least 1", ErrInvalidConfig)
	case c.RubricMax != 10 && c.RubricMax != 25:
		return fmt.Errorf("%w: rubric_max must be 10 or 25, got %d", ErrInvalidConfig, c.RubricMax)
	case c.RepoBoost < 0 || c.VideoBoost < 0:
		return fmt.Errorf("%w: boosts must not be negative", ErrInvalidConfig)
	case c.JudgeRateLimit < 0:
		return fmt.Errorf("%w: judge_rate_limit must not be negative", ErrInvalidConfig)
	case c.JudgeRateLimit > 0 && c.JudgeRateBurst < 1:
		return fmt.Errorf("%w: judge_rate_burst must be at least 1", ErrInvalidConfig)
	}
	return nil
}

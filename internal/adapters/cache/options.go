package cache

import "time"

// Option configures a Memory cache.
type Option func(*Memory)

// WithMaxEvents bounds the number of events kept; the least recently used
// event is evicted first.
func WithMaxEvents(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxEvents = n
		}
	}
}

// WithTTL expires stored boards after d.
func WithTTL(d time.Duration) Option {
	return func(m *Memory) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithRedisTTL expires stored boards after d.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithKeyPrefix namespaces every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterCleanupThreshold is the map size above which idle judges are pruned.
	limiterCleanupThreshold = 500
	// limiterMaxIdle is how long a judge may stay idle before being pruned.
	limiterMaxIdle = 10 * time.Minute
)

type judgeEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// JudgeLimiter throttles score writes per judge identity.
type JudgeLimiter struct {
	mu     sync.Mutex
	judges map[string]*judgeEntry
	limit  rate.Limit
	burst  int
	now    func() time.Time
}

// NewJudgeLimiter allows each judge limit score writes per second with the
// given burst.
func NewJudgeLimiter(limit rate.Limit, burst int) *JudgeLimiter {
	return &JudgeLimiter{
		judges: make(map[string]*judgeEntry),
		limit:  limit,
		burst:  burst,
		now:    time.Now,
	}
}

// Allow reports whether judge may write a score now.
func (l *JudgeLimiter) Allow(judge string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.judges) > limiterCleanupThreshold {
		cutoff := now.Add(-limiterMaxIdle)
		for k, e := range l.judges {
			if e.lastSeen.Before(cutoff) {
				delete(l.judges, k)
			}
		}
	}

	e, ok := l.judges[judge]
	if !ok {
		e = &judgeEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.judges[judge] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of judges currently tracked.
func (l *JudgeLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.judges)
}

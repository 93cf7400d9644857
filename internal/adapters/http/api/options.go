package api

import (
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithJudgeRateLimit limits each judge to limit score writes per second
// with the given burst. Score writes are not limited otherwise.
func WithJudgeRateLimit(limit float64, burst int) Option {
	return func(s *Server) {
		if limit > 0 && burst > 0 {
			s.limiter = NewJudgeLimiter(rate.Limit(limit), burst)
		}
	}
}

// WithRoutes registers additional routes on the router, such as the API docs.
func WithRoutes(register func(chi.Router)) Option {
	return func(s *Server) {
		if register != nil {
			s.extraRoutes = append(s.extraRoutes, register)
		}
	}
}

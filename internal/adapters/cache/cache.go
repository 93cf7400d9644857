// Package cache memoizes computed leaderboards per event. Every event has a
// version that only grows; writes bump it and boards are stored under the
// version they were computed against, so a stale board is never served.
package cache

import (
	"context"

	"github.com/okian/hacksphere/internal/domain/types"
)

// Cache stores leaderboards keyed by event, version and round filter.
type Cache interface {
	// Version returns the event's current version.
	Version(ctx context.Context, eventID string) (uint64, error)

	// Get returns the board stored for version, if any.
	Get(ctx context.Context, eventID string, version uint64, round int) ([]types.Entry, bool, error)

	// Put stores a board computed after reading version.
	Put(ctx context.Context, eventID string, version uint64, round int, entries []types.Entry) error

	// Invalidate bumps the event's version.
	Invalidate(ctx context.Context, eventID string) error

	Close() error
}

// Nop never stores anything.
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Version(context.Context, string) (uint64, error) { return 0, nil }

func (Nop) Get(context.Context, string, uint64, int) ([]types.Entry, bool, error) {
	return nil, false, nil
}

func (Nop) Put(context.Context, string, uint64, int, []types.Entry) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }

func (Nop) Close() error { return nil }

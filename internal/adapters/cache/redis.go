package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/hacksphere/internal/domain/types"
)

const defaultKeyPrefix = "hacksphere:lb"

// Redis is a Cache shared by every replica. The version of an event is an
// INCR counter; boards are JSON values with a TTL.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// NewRedis wraps a connected client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: defaultKeyPrefix, ttl: defaultTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DialRedis connects to addr and pings it.
func DialRedis(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w: %w", addr, ErrUnavailable, err)
	}
	return NewRedis(client, opts...), nil
}

func (r *Redis) versionKey(eventID string) string {
	return r.prefix + ":" + eventID + ":v"
}

func (r *Redis) boardKey(eventID string, version uint64, round int) string {
	return r.prefix + ":" + eventID + ":" + strconv.FormatUint(version, 10) + ":" + strconv.Itoa(round)
}

func (r *Redis) Version(ctx context.Context, eventID string) (uint64, error) {
	v, err := r.client.Get(ctx, r.versionKey(eventID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis version: %w: %w", ErrUnavailable, err)
	}
	return v, nil
}

func (r *Redis) Get(ctx context.Context, eventID string, version uint64, round int) ([]types.Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.boardKey(eventID, version, round)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w: %w", ErrUnavailable, err)
	}
	var entries []types.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode board: %w: %w", ErrCorrupt, err)
	}
	return entries, true, nil
}

func (r *Redis) Put(ctx context.Context, eventID string, version uint64, round int, entries []types.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := r.client.Set(ctx, r.boardKey(eventID, version, round), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, eventID string) error {
	if err := r.client.Incr(ctx, r.versionKey(eventID)).Err(); err != nil {
		return fmt.Errorf("redis incr: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

package redisad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gogo_hotel/internal/adapters/observability"
)

// Store is the session-scoped key-value store. Every read or write of a key
// restarts its TTL, so an active session slides and an idle one disappears.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

func NewWithClient(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }

func (r *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var cmd *redis.StringCmd
	if r.ttl > 0 {
		cmd = r.c.GetEx(ctx, key, r.ttl)
	} else {
		// GETEX with no expiry would PERSIST the key
		cmd = r.c.Get(ctx, key)
	}
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStore("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	observability.ObserveStore("redis", "hit")
	return v, true, nil
}

func (r *Store) Set(ctx context.Context, key, value string) error {
	observability.ObserveStore("redis", "set")
	if err := r.c.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	observability.ObserveStore("redis", "del")
	if err := r.c.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

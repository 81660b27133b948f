package cache

import (
	"context"
	"time"
)

// Noop is a Cache that stores nothing. Every Get is a miss and counters
// always read zero, so callers behave as if the cache were empty.
type Noop struct{}

func NewNoop() Cache {
	return Noop{}
}

func (Noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (Noop) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (Noop) Ping(ctx context.Context) error {
	return nil
}

func (Noop) Increment(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (Noop) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (Noop) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func (Noop) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

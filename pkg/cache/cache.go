package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss is returned by Get and GetJSON when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	Close() error
}

// New returns a Redis cache when redisURL is set, otherwise an in-process one
// whose expired entries are swept until ctx is done.
func New(ctx context.Context, redisURL string) (Cache, error) {
	if redisURL == "" {
		m := NewMemoryCache()
		go m.Sweep(ctx, memorySweepInterval)
		return m, nil
	}
	return NewRedisCache(redisURL)
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal cache value: %w", err)
	}
	return string(data), nil
}

func unmarshalJSON(data string, dest any) error {
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal cache value: %w", err)
	}
	return nil
}

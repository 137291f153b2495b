package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider stores serialized collection snapshots by key.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A non-positive ttl keeps the entry until
	// it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete drops every key given; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

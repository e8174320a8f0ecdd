// Package cache provides byte-oriented storage backends for registry
// responses.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (multi-process and server use)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// Callers build keys with [HTTPKey] so that entries from different registries
// never collide.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get reports (nil, false, nil) on a miss or an expired entry. A non-nil error
// means the backend itself failed; callers treat that as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

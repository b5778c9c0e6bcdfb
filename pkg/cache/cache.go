// Package cache stores computed layouts and painted artifacts.
//
// Layout is the expensive step when the input is a DOT description, and the
// HTTP server may see the same request many times. Both are cached behind
// the small [Cache] interface with three backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] from content hashes and every option that
// changes the result. [Fetch] wraps the read-compute-store cycle and reports
// hits and misses through the observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/mcviz/pkg/observability"
)

// Cache is a byte store with optional expiry. A TTL of zero never expires.
type Cache interface {
	// Get returns the value for key. The boolean reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Key types reported to observability hooks.
const (
	KeyTypeLayout   = "layout"
	KeyTypeArtifact = "artifact"
)

// Fetch returns the value for key, calling compute and storing its result on
// a miss. Cache failures degrade to a miss; only compute errors are returned.
func Fetch(ctx context.Context, c Cache, keyType, key string, ttl time.Duration,
	compute func(context.Context) ([]byte, error)) (data []byte, hit bool, err error) {
	hooks := observability.Cache()

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err = compute(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// Package cache stores rendered rack diagrams so repeated renders of an
// unchanged layout skip Graphviz.
//
// Keys are content hashes of the render input (see [RenderKey]), so an
// entry never goes stale: a changed layout produces a different key.
// Entries still carry an optional TTL so the cache directory does not grow
// without bound.
//
// # Backends
//
//   - [FileCache]: one file per entry under a cache directory (CLI)
//   - [NullCache]: stores nothing (--no-cache, tests)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/racktower/pkg/observability"
)

// Cache is the interface for render cache backends.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLRender is how long a rendered diagram is kept.
const TTLRender = 7 * 24 * time.Hour

// GetOrCompute returns the cached value for key, or calls compute and
// stores its result. keyType labels the entry for observability hooks.
// Cache read and write failures fall through to compute; only compute's
// error is returned.
func GetOrCompute(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

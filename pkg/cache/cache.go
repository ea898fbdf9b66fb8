// Package cache stores rendered artifacts keyed by content hash.
//
// Rendering a diagram is deterministic: the same DOT source and options
// always produce the same bytes. The pipeline therefore keys artifacts on
// the SHA-256 of the DOT source plus the output options and skips Graphviz
// entirely on a hit.
//
// # Backends
//
//   - [FileCache]: local directory, the CLI default (~/.cache/eksdiagrams)
//   - [RedisCache]: shared cache for the preview server or CI runners
//   - [NullCache]: disables caching
//
// All backends treat expired or corrupt entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache stores nothing. The CLI uses it for --no-cache and when no
// cache directory can be resolved.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

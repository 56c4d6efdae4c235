// Package cache stores computed layouts so repeated runs over an unchanged
// document skip the layout engine.
//
// Two backends are provided: [FileCache] keeps entries as files under a
// directory (the CLI uses $XDG_CACHE_HOME/whtopo), and [NullCache] never
// stores anything and backs the --no-cache flag.
//
// [Layouts] wraps a backend with layout-specific keys and encoding:
//
//	c, _ := cache.NewFileCache(dir)
//	layouts := cache.NewLayouts(c, time.Hour)
//	res, err := layouts.Run(ctx, "smart", cfg, nodes, edges)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

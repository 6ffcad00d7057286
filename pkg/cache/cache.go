// Package cache provides caching of computed layouts.
//
// Laying out a graph shells out to the Graphviz engine, which dominates the
// cost of an expansion. Because the DOT text is a pure function of the
// node/edge set and the layout constants, positions can be cached by a hash
// of that text: re-layouts of a previously seen graph shape (resets,
// promote/collapse cycles, repeated sessions over the same data) become
// map lookups.
//
// Backends:
//   - memory: per-process cache for interactive sessions
//   - file: persistent cache for CLI usage across runs
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for layout cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKey generates the cache key for a layout computed from the given
// DOT text. The key format is layout:sha256(dot).
func LayoutKey(dot string) string {
	return "layout:" + Hash([]byte(dot))
}

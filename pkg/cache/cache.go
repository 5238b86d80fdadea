// Package cache stores rendered diagram artifacts keyed by content hash.
//
// Rendering through Graphviz or rsvg-convert is the slow path of serving
// a board, so artifacts (SVG, PNG, PDF bytes) are cached keyed by the
// model content and render options that produced them. A model edit
// changes the hash, which naturally invalidates stale artifacts without
// explicit eviction.
//
// Backends:
//   - file: persistent cache for CLI usage (~/.cache style directories)
//   - memory: per-process cache for the HTTP server
//   - null: disabled caching for tests and --no-cache runs
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by artifact cache backends.
type Cache interface {
	// Get retrieves a cached artifact. The second return reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores an artifact. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes an artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

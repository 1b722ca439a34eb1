package driven

import (
	"context"
	"time"
)

// Cache is a best-effort key-value side cache fronting expensive
// recomputation. It is never a source of truth: every operation
// degrades to a no-op when the backing store is unavailable, and
// callers must be correct with no cache at all.
type Cache interface {
	// Get retrieves the raw bytes for a key. The second return is
	// false on a miss or when the cache is unavailable.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores bytes under a key with the given TTL. Returns false
	// when the value was not stored (unavailable or backend error).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes a key. Returns false when nothing was deleted.
	Delete(ctx context.Context, key string) bool

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) bool

	// ClearPattern removes every key matching a glob pattern and
	// returns the number removed.
	ClearPattern(ctx context.Context, pattern string) int

	// Available reports whether the backing store is reachable.
	Available() bool

	// Close releases resources.
	Close() error
}

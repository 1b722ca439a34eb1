// Package memory provides an in-memory implementation of the Cache
// port, used in tests and when no backing store is configured.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is an in-memory implementation of driven.Cache. Expiry is
// enforced lazily on read. The availability flag mimics the degraded
// mode of the network-backed cache for tests.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	available bool
	now       func() time.Time
}

// NewCache creates an available in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries:   make(map[string]entry),
		available: true,
		now:       time.Now,
	}
}

// SetAvailable toggles the simulated backing-store availability.
// While unavailable, every operation is a silent no-op.
func (c *Cache) SetAvailable(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = v
}

// Available reports whether the cache accepts operations.
func (c *Cache) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// Get retrieves the bytes for a key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.available {
		return nil, false
	}
	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.data, true
}

// Set stores bytes under a key with a TTL. A zero TTL never expires.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return false
	}
	e := entry{data: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return true
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return false
	}
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Exists reports whether a key is present and unexpired.
func (c *Cache) Exists(_ context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.available {
		return false
	}
	e, ok := c.entries[key]
	return ok && !c.expired(e)
}

// ClearPattern removes every key matching the glob pattern.
func (c *Cache) ClearPattern(_ context.Context, pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return 0
	}
	removed := 0
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Close releases resources.
func (c *Cache) Close() error {
	return nil
}

// SetClock overrides the time source for expiry tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Cache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

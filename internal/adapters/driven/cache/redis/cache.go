// Package redis provides a Redis-backed implementation of the Cache
// port. The backing store is optional: when Redis is unreachable at
// construction or drops mid-session, the cache flips to an
// unavailable mode where every operation is a silent no-op. The
// pipeline must stay correct with no cache at all, so degradation is
// never an error.
package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.Cache = (*Cache)(nil)

// DefaultTimeout bounds every cache network call. The cache sits on
// the detection hot path, so a slow backend must degrade rather than
// block.
const DefaultTimeout = 2 * time.Second

// Cache is a Redis-backed implementation of driven.Cache.
type Cache struct {
	client    *redis.Client
	timeout   time.Duration
	available atomic.Bool
}

// NewCache connects to Redis at addr. Connection failure is not
// fatal: the cache starts unavailable and callers proceed without
// speedups.
func NewCache(addr string, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		}),
		timeout: timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := c.client.Ping(ctx).Err(); err != nil {
		logger.Warn("cache backing store unreachable at %s: %v (continuing without cache)", addr, err)
		c.available.Store(false)
		return c
	}

	c.available.Store(true)
	logger.Debug("cache connected to %s", addr)
	return c
}

// Available reports whether the backing store is reachable.
func (c *Cache) Available() bool {
	return c.available.Load()
}

// Get retrieves the bytes for a key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.available.Load() {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.degrade("get", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores bytes under a key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if !c.available.Load() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.degrade("set", err)
		return false
	}
	return true
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	if !c.available.Load() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		c.degrade("delete", err)
		return false
	}
	return n > 0
}

// Exists reports whether a key is present.
func (c *Cache) Exists(ctx context.Context, key string) bool {
	if !c.available.Load() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.degrade("exists", err)
		return false
	}
	return n > 0
}

// ClearPattern removes every key matching a glob pattern using
// incremental SCAN, so large keyspaces never block the backend.
func (c *Cache) ClearPattern(ctx context.Context, pattern string) int {
	if !c.available.Load() {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	removed := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.degrade("clear", err)
			return removed
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		c.degrade("scan", err)
	}
	return removed
}

// Close releases the client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// degrade flips the cache to unavailable after a backend failure.
// Cache failures are never fatal; detection proceeds without the
// speedup until the process restarts.
func (c *Cache) degrade(op string, err error) {
	if c.available.CompareAndSwap(true, false) {
		logger.Warn("cache %s failed: %v (cache disabled for this session)", op, err)
	}
}

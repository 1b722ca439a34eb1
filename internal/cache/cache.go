// Package cache provides the value codec, key construction, and
// memoisation helpers used on top of the Cache port. The cache is a
// best-effort optimisation: every helper here behaves correctly when
// handed a nil or unavailable cache.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

// keyNamespace prefixes every cache key so ClearPattern can scope
// flushes to this application.
const keyNamespace = "dedupe"

// Encode serialises a value for cache storage. Plain values and
// structs are stored as JSON; values JSON cannot represent fall back
// to gob.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err == nil {
		return data, nil
	}

	var buf bytes.Buffer
	if gobErr := gob.NewEncoder(&buf).Encode(v); gobErr != nil {
		return nil, gobErr
	}
	return buf.Bytes(), nil
}

// Decode deserialises cached bytes into target, attempting JSON first
// and falling back to gob, mirroring Encode.
func Decode(data []byte, target any) error {
	jsonErr := json.Unmarshal(data, target)
	if jsonErr == nil {
		return nil
	}

	if gobErr := gob.NewDecoder(bytes.NewReader(data)).Decode(target); gobErr != nil {
		// The JSON error is the more likely cause for human-readable values.
		return jsonErr
	}
	return nil
}

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	return keyNamespace + ":" + strings.Join(parts, ":")
}

// PairKey builds an order-independent key for a document pair. Each
// document carries a content version (typically its content hash); the
// (id, version) tuples sort together, so (A,B) and (B,A) share one
// entry while a document whose content changed never hits a stale one.
func PairKey(kind, idA, verA, idB, verB string) string {
	if idA > idB || (idA == idB && verA > verB) {
		idA, verA, idB, verB = idB, verB, idA, verA
	}
	return Key(kind, idA, verA, idB, verB)
}

// ArgsHash returns a deterministic hex digest of the arguments, used
// to key memoised function results.
func ArgsHash(args ...any) string {
	data, err := json.Marshal(args)
	if err != nil {
		// Unmarshalable arguments still need a stable key; hash the
		// gob encoding instead.
		var buf bytes.Buffer
		_ = gob.NewEncoder(&buf).Encode(args)
		data = buf.Bytes()
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Cached wraps a pure function with cache memoisation. Results are
// keyed by a hash of the argument under the given prefix. The bypass
// flag skips both lookup and store, for callers that must recompute.
// A nil cache degrades to calling fn directly.
func Cached[A any, R any](
	c driven.Cache,
	prefix string,
	ttl time.Duration,
	fn func(context.Context, A) (R, error),
) func(ctx context.Context, arg A, bypass bool) (R, error) {
	return func(ctx context.Context, arg A, bypass bool) (R, error) {
		if c == nil || bypass {
			return fn(ctx, arg)
		}

		key := Key(prefix, ArgsHash(arg))
		if data, ok := c.Get(ctx, key); ok {
			var cached R
			if err := Decode(data, &cached); err == nil {
				return cached, nil
			}
			// A corrupt entry is dropped and recomputed.
			logger.Debug("discarding undecodable cache entry %s", key)
			c.Delete(ctx, key)
		}

		result, err := fn(ctx, arg)
		if err != nil {
			return result, err
		}

		if data, encErr := Encode(result); encErr == nil {
			c.Set(ctx, key, data, ttl)
		}
		return result, nil
	}
}

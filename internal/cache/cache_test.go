package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/cache/memory"
)

func TestEncodeDecode_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}

	data, err := Encode(payload{Name: "doc-1", Score: 0.93})
	require.NoError(t, err)

	var out payload
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, "doc-1", out.Name)
	assert.InDelta(t, 0.93, out.Score, 1e-9)
}

func TestEncodeDecode_BinaryFallback(t *testing.T) {
	// complex128 has no JSON representation, so Encode must take the
	// gob path and Decode must mirror it.
	type payload struct {
		Z complex128
	}

	data, err := Encode(payload{Z: complex(1, 2)})
	require.NoError(t, err)

	var out payload
	require.NoError(t, Decode(data, &out))
	assert.Equal(t, complex(1, 2), out.Z)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "dedupe:vec:abc", Key("vec", "abc"))
}

func TestPairKey_OrderIndependent(t *testing.T) {
	assert.Equal(t,
		PairKey("compare", "doc-a", "v1", "doc-b", "v2"),
		PairKey("compare", "doc-b", "v2", "doc-a", "v1"))
	assert.Equal(t, "dedupe:compare:doc-a:v1:doc-b:v2",
		PairKey("compare", "doc-b", "v2", "doc-a", "v1"))

	// Same ID on both sides: the versions alone decide the order.
	assert.Equal(t,
		PairKey("compare", "doc-a", "v1", "doc-a", "v2"),
		PairKey("compare", "doc-a", "v2", "doc-a", "v1"))
}

func TestPairKey_DistinguishesContentVersions(t *testing.T) {
	assert.NotEqual(t,
		PairKey("compare", "doc-a", "v1", "doc-b", "v1"),
		PairKey("compare", "doc-a", "v1", "doc-b", "v2"))
}

func TestArgsHash_Deterministic(t *testing.T) {
	assert.Equal(t, ArgsHash("text", 3), ArgsHash("text", 3))
	assert.NotEqual(t, ArgsHash("text", 3), ArgsHash("text", 4))
}

func TestCached_MemoisesResults(t *testing.T) {
	c := memory.NewCache()
	calls := 0
	fn := Cached(c, "square", time.Minute, func(_ context.Context, n int) (int, error) {
		calls++
		return n * n, nil
	})
	ctx := context.Background()

	got, err := fn(ctx, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 49, got)

	got, err = fn(ctx, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 49, got)
	assert.Equal(t, 1, calls, "second call must hit the cache")
}

func TestCached_BypassSkipsCache(t *testing.T) {
	c := memory.NewCache()
	calls := 0
	fn := Cached(c, "double", time.Minute, func(_ context.Context, n int) (int, error) {
		calls++
		return n * 2, nil
	})
	ctx := context.Background()

	_, _ = fn(ctx, 5, false)
	_, _ = fn(ctx, 5, true)
	assert.Equal(t, 2, calls, "bypass must recompute")
}

func TestCached_NilCachePassthrough(t *testing.T) {
	calls := 0
	fn := Cached(nil, "id", time.Minute, func(_ context.Context, s string) (string, error) {
		calls++
		return s, nil
	})

	got, err := fn(context.Background(), "x", false)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, 1, calls)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	c := memory.NewCache()
	calls := 0
	fn := Cached(c, "flaky", time.Minute, func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	ctx := context.Background()

	_, err := fn(ctx, "k", false)
	require.Error(t, err)

	got, err := fn(ctx, "k", false)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestCached_UnavailableCacheStillComputes(t *testing.T) {
	c := memory.NewCache()
	c.SetAvailable(false)

	calls := 0
	fn := Cached(c, "calc", time.Minute, func(_ context.Context, n int) (int, error) {
		calls++
		return n + 1, nil
	})
	ctx := context.Background()

	got, err := fn(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, _ = fn(ctx, 1, false)
	assert.Equal(t, 2, calls, "unavailable cache cannot memoise")
}

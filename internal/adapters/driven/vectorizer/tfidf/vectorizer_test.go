package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dedupe-cli/internal/similarity"
)

func TestVectorize_Deterministic(t *testing.T) {
	v := NewVectorizer(0)
	text := "the archive contains scanned correspondence from nineteen forty two"

	a, err := v.Vectorize(context.Background(), text)
	require.NoError(t, err)
	b, err := v.Vectorize(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestVectorize_UnitNorm(t *testing.T) {
	v := NewVectorizer(256)

	vec, err := v.Vectorize(context.Background(), "alpha beta gamma delta epsilon")
	require.NoError(t, err)

	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestVectorize_WordOrderInvariant(t *testing.T) {
	v := NewVectorizer(0)

	a, err := v.Vectorize(context.Background(), "first second third fourth")
	require.NoError(t, err)
	b, err := v.Vectorize(context.Background(), "fourth third second first")
	require.NoError(t, err)

	score, err := similarity.Cosine(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestVectorize_DisjointTextsAreOrthogonal(t *testing.T) {
	v := NewVectorizer(0)

	a, err := v.Vectorize(context.Background(), "alpha beta gamma delta")
	require.NoError(t, err)
	b, err := v.Vectorize(context.Background(), "epsilon zeta theta iota")
	require.NoError(t, err)

	score, err := similarity.Cosine(a, b)
	require.NoError(t, err)
	assert.Less(t, score, 0.1)
}

func TestVectorize_EmptyText(t *testing.T) {
	v := NewVectorizer(64)

	vec, err := v.Vectorize(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, 64)
}

func TestVectorize_CancelledContext(t *testing.T) {
	v := NewVectorizer(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Vectorize(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestName(t *testing.T) {
	assert.Equal(t, "tfidf", NewVectorizer(0).Name())
}

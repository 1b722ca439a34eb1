package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

func newTestLSH() (*MinHasher, *LSHIndex) {
	return NewMinHasher(128, 3), NewLSHIndex(32, 4)
}

func TestLSHIndex_InsertAndQuery(t *testing.T) {
	h, idx := newTestLSH()
	text := sentence(80)

	idx.Insert("doc-1", h.Signature(text))

	candidates := idx.Query(h.Signature(text))
	require.Len(t, candidates, 1)
	assert.Equal(t, "doc-1", candidates[0])
	assert.Equal(t, 1, idx.Len())
}

func TestLSHIndex_NearDuplicateIsCandidate(t *testing.T) {
	h, idx := newTestLSH()
	original := sentence(200)
	noisy := substituteWords(original, 20) // 5% noise

	idx.Insert("doc-1", h.Signature(original))

	candidates := idx.Query(h.Signature(noisy))
	assert.Contains(t, candidates, "doc-1")
}

func TestLSHIndex_UnrelatedIsNotCandidate(t *testing.T) {
	h, idx := newTestLSH()
	idx.Insert("doc-1", h.Signature(sentence(80)))

	candidates := idx.Query(h.Signature("entirely unrelated material discussing the migration routes of arctic terns across the northern hemisphere during spring"))
	assert.Empty(t, candidates)
}

func TestLSHIndex_RemoveRetractsAllBuckets(t *testing.T) {
	h, idx := newTestLSH()
	sig := h.Signature(sentence(80))

	idx.Insert("doc-1", sig)
	require.True(t, idx.Remove("doc-1"))

	assert.Empty(t, idx.Query(sig))
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Contains("doc-1"))

	// Removing again reports nothing left to remove.
	assert.False(t, idx.Remove("doc-1"))
}

func TestLSHIndex_BestMatch(t *testing.T) {
	h, idx := newTestLSH()
	original := sentence(200)

	idx.Insert("doc-1", h.Signature(original))
	idx.Insert("doc-2", h.Signature("unrelated passage about deep sea hydrothermal vents and the chemosynthetic ecosystems that surround them on the ocean floor"))

	id, sim, ok := idx.BestMatch(h.Signature(substituteWords(original, 20)), "")
	require.True(t, ok)
	assert.Equal(t, "doc-1", id)
	assert.Greater(t, sim, 0.5)
}

func TestLSHIndex_BestMatchExcludesSelf(t *testing.T) {
	h, idx := newTestLSH()
	sig := h.Signature(sentence(80))
	idx.Insert("doc-1", sig)

	_, _, ok := idx.BestMatch(sig, "doc-1")
	assert.False(t, ok)
}

func TestLSHIndex_TiesKeepFirstInserted(t *testing.T) {
	h, idx := newTestLSH()
	sig := h.Signature(sentence(80))

	// Two documents with identical signatures tie exactly; the
	// first-seen document must win.
	idx.Insert("doc-first", sig)
	idx.Insert("doc-second", sig)

	id, sim, ok := idx.BestMatch(sig, "")
	require.True(t, ok)
	assert.Equal(t, "doc-first", id)
	assert.Equal(t, 1.0, sim)
}

func TestLSHIndex_ThresholdBoundary(t *testing.T) {
	// 0.875 - 0.125 puts the stage threshold at exactly 0.75 (both
	// values are exactly representable), which is 96 of 128 matching
	// slots. The classification is inclusive: a candidate estimating
	// exactly at the threshold is a duplicate, one slot fewer is not.
	settings := domain.DefaultSettings()
	settings.VectorThreshold = 0.875
	settings.LSHThresholdDelta = 0.125
	require.NoError(t, settings.Validate())
	threshold := settings.LSHThreshold()

	base := make(Signature, 128)
	for i := range base {
		base[i] = uint64(i)*0x9e3779b97f4a7c15 + 1
	}

	cases := []struct {
		name     string
		matching int
		want     bool
	}{
		{"exactly at threshold", 96, true},
		{"one slot below", 95, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx := NewLSHIndex(32, 4)
			idx.Insert("doc-1", base)

			// Agree in the first tc.matching slots, differ in the rest.
			// The shared leading bands guarantee candidacy, so only the
			// estimate-vs-threshold comparison decides.
			query := make(Signature, len(base))
			copy(query, base)
			for i := tc.matching; i < len(query); i++ {
				query[i] = base[i] + 1
			}

			id, est, ok := idx.BestMatch(query, "")
			require.True(t, ok)
			assert.Equal(t, "doc-1", id)
			assert.Equal(t, float64(tc.matching)/128.0, est)
			assert.Equal(t, tc.want, est >= threshold)
		})
	}
}

func TestLSHIndex_ReinsertReplacesSignature(t *testing.T) {
	h, idx := newTestLSH()
	oldSig := h.Signature(sentence(80))
	newText := "replacement content describing quarterly maintenance procedures for industrial refrigeration compressors in food storage facilities"
	newSig := h.Signature(newText)

	idx.Insert("doc-1", oldSig)
	idx.Insert("doc-1", newSig)

	assert.Equal(t, 1, idx.Len())
	assert.Empty(t, idx.Query(oldSig))
	assert.Equal(t, []string{"doc-1"}, idx.Query(newSig))
}

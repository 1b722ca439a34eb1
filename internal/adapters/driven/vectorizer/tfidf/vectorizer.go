// Package tfidf provides a hashed term-frequency vectorizer. Terms
// are hashed into a fixed number of buckets, counts are log-scaled,
// and the result is L2-normalised. The mapping is a pure function of
// the text, so no corpus statistics or external service is needed and
// vectors stay comparable across processes and restarts.
package tfidf

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/similarity"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// DefaultDimensions is the default bucket count. Wide enough that
// hash collisions between distinct terms barely move cosine scores.
const DefaultDimensions = 4096

// Vectorizer converts text into a hashed, log-scaled term-frequency
// vector.
type Vectorizer struct {
	dimensions int
}

// NewVectorizer creates a hashed term-frequency vectorizer with the
// given bucket count. Non-positive dimensions fall back to the
// default.
func NewVectorizer(dimensions int) *Vectorizer {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Vectorizer{dimensions: dimensions}
}

// Vectorize generates a vector for the given text.
func (v *Vectorizer) Vectorize(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[uint64]int)
	for _, word := range similarity.Words(text) {
		h := fnv.New64a()
		h.Write([]byte(word))
		counts[h.Sum64()%uint64(v.dimensions)]++
	}

	vec := make([]float32, v.dimensions)
	for bucket, count := range counts {
		// Log scaling keeps very frequent terms from dominating.
		vec[bucket] = float32(1 + math.Log(float64(count)))
	}

	return similarity.L2Normalize(vec), nil
}

// Dimensions returns the vector size this implementation produces.
func (v *Vectorizer) Dimensions() int {
	return v.dimensions
}

// Name returns a short identifier for logging.
func (v *Vectorizer) Name() string {
	return "tfidf"
}

// Close releases resources.
func (v *Vectorizer) Close() error {
	return nil
}

package similarity

import (
	"math"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

// normEpsilon guards against division by zero for degenerate vectors.
const normEpsilon = 1e-8

// Cosine computes the cosine similarity of two vectors, clamped to
// [0,1]. Vectors of different dimensionality are incomparable and
// return domain.ErrDimensionMismatch.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	sim := dot / ((math.Sqrt(normA) + normEpsilon) * (math.Sqrt(normB) + normEpsilon))
	return clamp01(sim), nil
}

// L2Normalize scales the vector to unit length in place and returns
// it. Zero vectors are returned unchanged.
func L2Normalize(v []float32) []float32 {
	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	norm = math.Sqrt(norm)
	if norm < normEpsilon {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

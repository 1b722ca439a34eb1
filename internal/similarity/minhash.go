package similarity

import (
	"hash/fnv"
	"math"
)

// minhashSeed anchors the derived permutation parameters. Changing it
// invalidates every stored signature, so it is fixed for the lifetime
// of the index format.
const minhashSeed uint64 = 0x9d3f_52ab_71c4_e680

// Signature is a MinHash signature: one minimum hash value per
// permutation. Signatures are immutable once computed; a text change
// is handled as remove+add by the pipeline.
type Signature []uint64

// Estimate returns the estimated Jaccard similarity between two
// signatures: the fraction of matching slots. Signatures of different
// sizes are incomparable and estimate to 0.
func (s Signature) Estimate(other Signature) float64 {
	if len(s) == 0 || len(s) != len(other) {
		return 0
	}
	equal := 0
	for i := range s {
		if s[i] == other[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(s))
}

// Empty returns true if the signature was computed over an empty
// shingle set (text shorter than one shingle).
func (s Signature) Empty() bool {
	for _, v := range s {
		if v != math.MaxUint64 {
			return false
		}
	}
	return true
}

// MinHasher computes MinHash signatures over word shingles.
// Permutation parameters are derived deterministically, so the same
// text always produces the same signature across processes.
type MinHasher struct {
	numPerm     int
	shingleSize int
	mulA        []uint64
	addB        []uint64
}

// NewMinHasher creates a hasher with the given permutation count and
// shingle size.
func NewMinHasher(numPerm, shingleSize int) *MinHasher {
	h := &MinHasher{
		numPerm:     numPerm,
		shingleSize: shingleSize,
		mulA:        make([]uint64, numPerm),
		addB:        make([]uint64, numPerm),
	}

	state := minhashSeed
	for i := 0; i < numPerm; i++ {
		h.mulA[i] = splitmix64(&state) | 1 // multipliers must be odd
		h.addB[i] = splitmix64(&state)
	}
	return h
}

// NumPermutations returns the signature size.
func (h *MinHasher) NumPermutations() int {
	return h.numPerm
}

// Signature computes the MinHash signature of the text. The text is
// normalised and shingled internally.
func (h *MinHasher) Signature(text string) Signature {
	sig := make(Signature, h.numPerm)
	for i := range sig {
		sig[i] = math.MaxUint64
	}

	for _, shingle := range Shingles(Normalize(text), h.shingleSize) {
		base := fnv64a(shingle)
		for i := 0; i < h.numPerm; i++ {
			v := mix64(base*h.mulA[i] + h.addB[i])
			if v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// fnv64a hashes a shingle to a 64-bit base value.
func fnv64a(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// splitmix64 advances the state and returns the next derived value.
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	return mix64(*state)
}

// mix64 is the splitmix64 finaliser, used to decorrelate permutations.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

package domain

import (
	"fmt"
	"time"
)

// VectorizerMethod selects the vectorizer implementation.
type VectorizerMethod string

// Available vectorizer methods.
const (
	// VectorizerTFIDF is the built-in hashed TF-IDF vectorizer.
	VectorizerTFIDF VectorizerMethod = "tfidf"

	// VectorizerEmbedding is a dense embedding service reached over HTTP.
	VectorizerEmbedding VectorizerMethod = "embedding"
)

// IsValid returns true if the vectorizer method is recognised.
func (m VectorizerMethod) IsValid() bool {
	switch m {
	case VectorizerTFIDF, VectorizerEmbedding:
		return true
	default:
		return false
	}
}

// Settings holds the tunable parameters of the detection pipeline.
// Construct with DefaultSettings and override from the config file;
// always Validate before wiring services.
type Settings struct {
	// VectorThreshold is the cosine similarity above which the vector
	// stage reports a duplicate.
	VectorThreshold float64 `toml:"vector_threshold"`

	// LSHThresholdDelta is subtracted from VectorThreshold to obtain
	// the LSH stage threshold. The offset is a tunable, not a derived
	// constant; 0.05 matches observed OCR noise on scanned documents.
	LSHThresholdDelta float64 `toml:"lsh_threshold_delta"`

	// MinTextLength is the minimum character count for reliable
	// detection. Shorter inputs are rejected with a structured result.
	MinTextLength int `toml:"min_text_length"`

	// NumPermutations is the MinHash signature size.
	NumPermutations int `toml:"num_permutations"`

	// ShingleSize is the word count per shingle.
	ShingleSize int `toml:"shingle_size"`

	// LSHBands is the number of bands the signature is split into.
	// NumPermutations must divide evenly into LSHBands.
	LSHBands int `toml:"lsh_bands"`

	// SectionThreshold governs similar-section extraction in pair
	// comparison.
	SectionThreshold float64 `toml:"section_threshold"`

	// PageThreshold governs page-level similarity flagging.
	PageThreshold float64 `toml:"page_threshold"`

	// Vectorizer selects the vectorizer implementation.
	Vectorizer VectorizerMethod `toml:"vectorizer"`

	// VectorDimensions is the hashed TF-IDF vector size.
	VectorDimensions int `toml:"vector_dimensions"`

	// EmbeddingURL is the base URL of the embedding service.
	EmbeddingURL string `toml:"embedding_url"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// CacheAddr is the Redis address for the cache layer. Empty
	// disables caching entirely.
	CacheAddr string `toml:"cache_addr"`

	// CacheTTL is the default expiry for cache entries.
	CacheTTL time.Duration `toml:"cache_ttl"`

	// CacheTimeout bounds every cache network call. Exceeding it
	// degrades the cache to unavailable rather than blocking.
	CacheTimeout time.Duration `toml:"cache_timeout"`

	// DataDir is where the sqlite store lives.
	// Empty defaults to ~/.dedupe/data.
	DataDir string `toml:"data_dir"`
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		VectorThreshold:   0.85,
		LSHThresholdDelta: 0.05,
		MinTextLength:     100,
		NumPermutations:   128,
		ShingleSize:       3,
		LSHBands:          32,
		SectionThreshold:  0.8,
		PageThreshold:     0.85,
		Vectorizer:        VectorizerTFIDF,
		VectorDimensions:  4096,
		EmbeddingURL:      "http://localhost:11434",
		EmbeddingModel:    "nomic-embed-text",
		CacheAddr:         "localhost:6379",
		CacheTTL:          24 * time.Hour,
		CacheTimeout:      2 * time.Second,
	}
}

// LSHThreshold returns the estimated-Jaccard threshold for the LSH stage.
func (s Settings) LSHThreshold() float64 {
	return s.VectorThreshold - s.LSHThresholdDelta
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.VectorThreshold <= 0 || s.VectorThreshold > 1 {
		return fmt.Errorf("%w: vector_threshold must be in (0,1], got %.2f",
			ErrInvalidInput, s.VectorThreshold)
	}
	if s.LSHThresholdDelta < 0 || s.LSHThresholdDelta >= s.VectorThreshold {
		return fmt.Errorf("%w: lsh_threshold_delta must be in [0,vector_threshold), got %.2f",
			ErrInvalidInput, s.LSHThresholdDelta)
	}
	if s.MinTextLength <= 0 {
		return fmt.Errorf("%w: min_text_length must be positive, got %d",
			ErrInvalidInput, s.MinTextLength)
	}
	if s.NumPermutations <= 0 {
		return fmt.Errorf("%w: num_permutations must be positive, got %d",
			ErrInvalidInput, s.NumPermutations)
	}
	if s.ShingleSize <= 0 {
		return fmt.Errorf("%w: shingle_size must be positive, got %d",
			ErrInvalidInput, s.ShingleSize)
	}
	if s.LSHBands <= 0 || s.NumPermutations%s.LSHBands != 0 {
		return fmt.Errorf("%w: lsh_bands must divide num_permutations evenly, got %d bands for %d permutations",
			ErrInvalidInput, s.LSHBands, s.NumPermutations)
	}
	if s.SectionThreshold <= 0 || s.SectionThreshold > 1 {
		return fmt.Errorf("%w: section_threshold must be in (0,1], got %.2f",
			ErrInvalidInput, s.SectionThreshold)
	}
	if s.PageThreshold <= 0 || s.PageThreshold > 1 {
		return fmt.Errorf("%w: page_threshold must be in (0,1], got %.2f",
			ErrInvalidInput, s.PageThreshold)
	}
	if !s.Vectorizer.IsValid() {
		return fmt.Errorf("%w: unknown vectorizer %q", ErrInvalidInput, s.Vectorizer)
	}
	if s.Vectorizer == VectorizerTFIDF && s.VectorDimensions <= 0 {
		return fmt.Errorf("%w: vector_dimensions must be positive, got %d",
			ErrInvalidInput, s.VectorDimensions)
	}
	return nil
}

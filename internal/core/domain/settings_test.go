package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
}

func TestSettings_LSHThreshold(t *testing.T) {
	s := DefaultSettings()
	assert.InDelta(t, 0.80, s.LSHThreshold(), 1e-9)

	s.LSHThresholdDelta = 0.1
	assert.InDelta(t, 0.75, s.LSHThreshold(), 1e-9)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		wantOK bool
	}{
		{"defaults", func(s *Settings) {}, true},
		{"zero vector threshold", func(s *Settings) { s.VectorThreshold = 0 }, false},
		{"threshold above one", func(s *Settings) { s.VectorThreshold = 1.5 }, false},
		{"negative delta", func(s *Settings) { s.LSHThresholdDelta = -0.1 }, false},
		{"delta swallows threshold", func(s *Settings) { s.LSHThresholdDelta = 0.85 }, false},
		{"zero min length", func(s *Settings) { s.MinTextLength = 0 }, false},
		{"zero permutations", func(s *Settings) { s.NumPermutations = 0 }, false},
		{"bands not dividing permutations", func(s *Settings) { s.LSHBands = 33 }, false},
		{"zero bands", func(s *Settings) { s.LSHBands = 0 }, false},
		{"unknown vectorizer", func(s *Settings) { s.Vectorizer = "word2vec" }, false},
		{"embedding without dimensions", func(s *Settings) {
			s.Vectorizer = VectorizerEmbedding
			s.VectorDimensions = 0
		}, true},
		{"tfidf without dimensions", func(s *Settings) { s.VectorDimensions = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDetectionMethod_IsValid(t *testing.T) {
	assert.True(t, MethodHash.IsValid())
	assert.True(t, MethodLSH.IsValid())
	assert.True(t, MethodVector.IsValid())
	assert.False(t, DetectionMethod("bm25").IsValid())
	assert.False(t, DetectionMethod("").IsValid())
}

func TestDefaultDetectionOptions(t *testing.T) {
	opts := DefaultDetectionOptions()
	assert.True(t, opts.CheckHash)
	assert.True(t, opts.CheckLSH)
	assert.True(t, opts.CheckVector)
	assert.Empty(t, opts.DocID)
}

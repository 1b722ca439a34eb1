package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/dedupe-cli/internal/cache"
	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
	"github.com/custodia-labs/dedupe-cli/internal/similarity"
)

// Ensure CompareService implements the interface.
var _ driving.ComparisonService = (*CompareService)(nil)

// CompareService produces detailed pairwise similarity reports:
// document-level cosine similarity, diff statistics, and paragraph
// pairs above the section threshold.
type CompareService struct {
	settings   domain.Settings
	vectorizer driven.Vectorizer
	cache      driven.Cache

	vectorize func(ctx context.Context, text string, bypass bool) ([]float32, error)
}

// NewCompareService creates the comparison service. The cache may be
// nil; the vectorizer is required for similarity scores and its
// absence surfaces as ErrVectorizerUnavailable at call time.
func NewCompareService(settings domain.Settings, vectorizer driven.Vectorizer, c driven.Cache) *CompareService {
	s := &CompareService{
		settings:   settings,
		vectorizer: vectorizer,
		cache:      c,
	}

	if vectorizer != nil {
		s.vectorize = cache.Cached(c, "vec:"+vectorizer.Name(), settings.CacheTTL,
			func(ctx context.Context, text string) ([]float32, error) {
				return vectorizer.Vectorize(ctx, text)
			})
	}

	return s
}

// ComparePair computes document-level similarity, diff statistics, and
// similar sections for two texts. Pairs are put in canonical ID order
// first, so (A,B) and (B,A) produce identical reports and share one
// cache entry. Entries are keyed by ID and content hash, so an ID
// whose text changed misses the cache instead of serving a stale
// report.
func (s *CompareService) ComparePair(ctx context.Context, idA, textA, idB, textB string) (*domain.ComparisonResult, error) {
	if s.vectorize == nil {
		return nil, domain.ErrVectorizerUnavailable
	}

	if idA != "" && idB != "" && idA > idB {
		idA, idB = idB, idA
		textA, textB = textB, textA
	}

	cacheable := s.cache != nil && idA != "" && idB != ""
	key := ""
	if cacheable {
		key = cache.PairKey("compare",
			idA, similarity.ContentHash(textA),
			idB, similarity.ContentHash(textB))
		if data, ok := s.cache.Get(ctx, key); ok {
			var cached domain.ComparisonResult
			if err := cache.Decode(data, &cached); err == nil {
				logger.Debug("comparison %s/%s served from cache", idA, idB)
				return &cached, nil
			}
			s.cache.Delete(ctx, key)
		}
	}

	normA := similarity.Normalize(textA)
	normB := similarity.Normalize(textB)

	vecA, err := s.vectorize(ctx, normA, false)
	if err != nil {
		return nil, fmt.Errorf("vectorizing first document: %w", err)
	}
	vecB, err := s.vectorize(ctx, normB, false)
	if err != nil {
		return nil, fmt.Errorf("vectorizing second document: %w", err)
	}

	score, err := similarity.Cosine(vecA, vecB)
	if err != nil {
		return nil, fmt.Errorf("comparing vectors: %w", err)
	}

	result := &domain.ComparisonResult{
		DocA:            idA,
		DocB:            idB,
		Similarity:      score,
		Diff:            similarity.Diff(textA, textB),
		SimilarSections: similarity.SimilarSections(textA, textB, s.settings.SectionThreshold),
	}

	if cacheable {
		if data, encErr := cache.Encode(result); encErr == nil {
			s.cache.Set(ctx, key, data, s.settings.CacheTTL)
		}
	}

	return result, nil
}

// AnalyzePages flags similar page pairs within one document. Pages
// that vectorize to nothing (blank after normalisation) are skipped;
// a vectorizer failure on any page aborts the analysis.
func (s *CompareService) AnalyzePages(ctx context.Context, pages []string) ([]domain.PageMatch, error) {
	if s.vectorize == nil {
		return nil, domain.ErrVectorizerUnavailable
	}

	vecs := make([][]float32, len(pages))
	for i, page := range pages {
		norm := similarity.Normalize(page)
		if norm == "" {
			continue
		}
		vec, err := s.vectorize(ctx, norm, false)
		if err != nil {
			return nil, fmt.Errorf("vectorizing page %d: %w", i+1, err)
		}
		vecs[i] = vec
	}

	var matches []domain.PageMatch
	for i := 0; i < len(vecs); i++ {
		if vecs[i] == nil {
			continue
		}
		for j := i + 1; j < len(vecs); j++ {
			if vecs[j] == nil {
				continue
			}

			select {
			case <-ctx.Done():
				return matches, ctx.Err()
			default:
			}

			score, err := similarity.Cosine(vecs[i], vecs[j])
			if err != nil {
				logger.Warn("skipping page pair %d/%d: %v", i+1, j+1, err)
				continue
			}
			if score >= s.settings.PageThreshold {
				matches = append(matches, domain.PageMatch{PageA: i, PageB: j, Similarity: score})
			}
		}
	}

	return matches, nil
}

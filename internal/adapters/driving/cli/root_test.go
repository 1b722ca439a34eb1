package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driving"
)

// mockDetectionService returns canned results for command tests.
type mockDetectionService struct {
	findResult   domain.DuplicateResult
	addResult    domain.AddResult
	removeResult domain.RemoveResult
	stats        domain.IndexStats
	batchErr     error
}

var _ driving.DetectionService = (*mockDetectionService)(nil)

func (m *mockDetectionService) FindDuplicates(_ context.Context, _ string, opts domain.DetectionOptions) domain.DuplicateResult {
	result := m.findResult
	result.DocID = opts.DocID
	return result
}

func (m *mockDetectionService) AddDocument(_ context.Context, docID, _ string) domain.AddResult {
	result := m.addResult
	result.DocID = docID
	return result
}

func (m *mockDetectionService) RemoveDocument(_ context.Context, docID string) domain.RemoveResult {
	result := m.removeResult
	result.DocID = docID
	return result
}

func (m *mockDetectionService) AnalyzeBatch(_ context.Context, texts []string, docIDs []string) ([]domain.DuplicateResult, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	results := make([]domain.DuplicateResult, len(texts))
	for i := range texts {
		results[i] = m.findResult
		if docIDs != nil {
			results[i].DocID = docIDs[i]
		}
	}
	return results, nil
}

func (m *mockDetectionService) LoadIndexes(context.Context) error {
	return nil
}

func (m *mockDetectionService) Stats() domain.IndexStats {
	return m.stats
}

// mockComparisonService returns canned comparison reports.
type mockComparisonService struct {
	compareResult *domain.ComparisonResult
	pageMatches   []domain.PageMatch
	err           error
}

var _ driving.ComparisonService = (*mockComparisonService)(nil)

func (m *mockComparisonService) ComparePair(_ context.Context, idA, _, idB, _ string) (*domain.ComparisonResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := *m.compareResult
	result.DocA = idA
	result.DocB = idB
	return &result, nil
}

func (m *mockComparisonService) AnalyzePages(context.Context, []string) ([]domain.PageMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pageMatches, nil
}

// setupTestServices installs mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	oldDetection := detectionService
	oldComparison := comparisonService

	detectionService = &mockDetectionService{
		findResult: domain.DuplicateResult{
			IsDuplicate:     true,
			MatchID:         "doc-a",
			Similarity:      1.0,
			Method:          domain.MethodHash,
			StagesAttempted: []domain.DetectionMethod{domain.MethodHash},
		},
		addResult: domain.AddResult{
			Added:   true,
			Methods: []domain.DetectionMethod{domain.MethodHash, domain.MethodLSH, domain.MethodVector},
		},
		removeResult: domain.RemoveResult{
			Removed: true,
			Methods: []domain.DetectionMethod{domain.MethodHash, domain.MethodLSH, domain.MethodVector},
		},
		stats: domain.IndexStats{HashEntries: 3, LSHEntries: 3, Vectors: 3},
	}
	comparisonService = &mockComparisonService{
		compareResult: &domain.ComparisonResult{
			Similarity: 0.91,
			Diff:       domain.DiffStats{Common: 10, LineSimilarity: 0.9, WordSimilarity: 0.95},
		},
		pageMatches: []domain.PageMatch{{PageA: 0, PageB: 2, Similarity: 0.97}},
	}

	return func() {
		detectionService = oldDetection
		comparisonService = oldComparison
	}
}

// errServiceFailure stands in for any downstream service error.
var errServiceFailure = errors.New("service failure")

package driving

import (
	"context"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

// DetectionService is the duplicate-detection pipeline: a cascading
// matcher over exact hashing, MinHash/LSH, and vector similarity,
// plus the index lifecycle.
type DetectionService interface {
	// FindDuplicates checks text against the indexes, running the
	// enabled stages in increasing cost order and short-circuiting on
	// the first hit. It never returns an error for input rejection or
	// stage failure; the result carries that state.
	FindDuplicates(ctx context.Context, text string, opts domain.DetectionOptions) domain.DuplicateResult

	// AddDocument inserts a document into all sub-indexes and persists
	// it. Partial failure is reported per sub-index, not rolled back.
	AddDocument(ctx context.Context, docID, text string) domain.AddResult

	// RemoveDocument retracts a document from every sub-index.
	RemoveDocument(ctx context.Context, docID string) domain.RemoveResult

	// AnalyzeBatch runs FindDuplicates over texts in input order.
	// When docIDs is nil, synthetic identifiers are assigned
	// positionally. The batch is cancellable between documents.
	AnalyzeBatch(ctx context.Context, texts []string, docIDs []string) ([]domain.DuplicateResult, error)

	// LoadIndexes warms the in-memory indexes from the detection
	// store. A load failure leaves the pipeline running with empty or
	// partial indexes rather than refusing to start.
	LoadIndexes(ctx context.Context) error

	// Stats returns the current size of each sub-index.
	Stats() domain.IndexStats
}

// ComparisonService produces detailed pairwise similarity reports.
type ComparisonService interface {
	// ComparePair computes document-level similarity, diff statistics,
	// and similar sections for two texts. Results are memoised under an
	// order-independent key when IDs are provided.
	ComparePair(ctx context.Context, idA, textA, idB, textB string) (*domain.ComparisonResult, error)

	// AnalyzePages flags similar page pairs within one document.
	AnalyzePages(ctx context.Context, pages []string) ([]domain.PageMatch, error)
}

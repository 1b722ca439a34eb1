package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/dedupe-cli/internal/cache"
	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
	"github.com/custodia-labs/dedupe-cli/internal/similarity"
)

// Ensure DetectorService implements the interface.
var _ driving.DetectionService = (*DetectorService)(nil)

// DetectorService runs the cascading duplicate-detection pipeline over
// three in-memory sub-indexes, ordered by cost: exact content hash,
// MinHash/LSH, and brute-force vector similarity. Each sub-index is
// internally synchronised; concurrent adds and checks are safe, though
// a check racing an add may or may not see the new document.
type DetectorService struct {
	settings   domain.Settings
	vectorizer driven.Vectorizer
	store      driven.DetectionStore

	hasher  *similarity.MinHasher
	hashes  *similarity.HashIndex
	lsh     *similarity.LSHIndex
	vectors *similarity.VectorStore

	// vectorize is the memoised vectorizer call; nil when no
	// vectorizer is configured.
	vectorize func(ctx context.Context, text string, bypass bool) ([]float32, error)
}

// NewDetectorService creates the detection pipeline. The vectorizer,
// store, and cache may each be nil: a nil vectorizer disables the
// vector stage, a nil store disables persistence, and a nil cache
// disables memoisation. Settings must be validated by the caller.
func NewDetectorService(
	settings domain.Settings,
	vectorizer driven.Vectorizer,
	store driven.DetectionStore,
	c driven.Cache,
) *DetectorService {
	s := &DetectorService{
		settings:   settings,
		vectorizer: vectorizer,
		store:      store,
		hasher:     similarity.NewMinHasher(settings.NumPermutations, settings.ShingleSize),
		hashes:     similarity.NewHashIndex(),
		lsh:        similarity.NewLSHIndex(settings.LSHBands, settings.NumPermutations/settings.LSHBands),
		vectors:    similarity.NewVectorStore(),
	}

	if vectorizer != nil {
		// Vectors are keyed by text and vectorizer, so switching the
		// vectorizer never serves stale entries.
		s.vectorize = cache.Cached(c, "vec:"+vectorizer.Name(), settings.CacheTTL,
			func(ctx context.Context, text string) ([]float32, error) {
				return vectorizer.Vectorize(ctx, text)
			})
	}

	return s
}

// FindDuplicates checks text against the indexes, running the enabled
// stages in increasing cost order and short-circuiting on the first
// hit. Stage failures are logged and treated as no-match; the
// remaining stages still run.
func (s *DetectorService) FindDuplicates(ctx context.Context, text string, opts domain.DetectionOptions) domain.DuplicateResult {
	start := time.Now()
	result := domain.DuplicateResult{
		DocID:           opts.DocID,
		StagesAttempted: []domain.DetectionMethod{},
	}

	normalized := similarity.Normalize(text)
	if utf8.RuneCountInString(normalized) < s.settings.MinTextLength {
		result.Error = domain.ErrTextTooShort.Error()
		result.Elapsed = time.Since(start)
		return result
	}

	if opts.CheckHash {
		result.StagesAttempted = append(result.StagesAttempted, domain.MethodHash)

		hash := similarity.ContentHash(text)
		if matchID, ok := s.hashes.Lookup(hash); ok && matchID != opts.DocID {
			logger.Debug("hash stage matched %s", matchID)
			return s.finish(ctx, result, matchID, 1.0, domain.MethodHash, start)
		}
	}

	if opts.CheckLSH {
		result.StagesAttempted = append(result.StagesAttempted, domain.MethodLSH)

		sig := s.hasher.Signature(normalized)
		if matchID, estimate, ok := s.lsh.BestMatch(sig, opts.DocID); ok && estimate >= s.settings.LSHThreshold() {
			logger.Debug("lsh stage matched %s (estimated jaccard %.3f)", matchID, estimate)
			return s.finish(ctx, result, matchID, estimate, domain.MethodLSH, start)
		}
	}

	if opts.CheckVector && s.vectorize != nil {
		result.StagesAttempted = append(result.StagesAttempted, domain.MethodVector)

		vec, err := s.vectorize(ctx, normalized, false)
		if err != nil {
			logger.Error("vector stage failed: %v", err)
		} else if matchID, score, ok := s.vectors.BestMatch(vec, opts.DocID); ok && score >= s.settings.VectorThreshold {
			logger.Debug("vector stage matched %s (cosine %.3f)", matchID, score)
			return s.finish(ctx, result, matchID, score, domain.MethodVector, start)
		}
	}

	result.Elapsed = time.Since(start)
	return result
}

// finish fills a match into the result and records the relation when
// the checked document has an identity. Persistence failure keeps the
// verdict; the relation log is auxiliary.
func (s *DetectorService) finish(
	ctx context.Context,
	result domain.DuplicateResult,
	matchID string,
	score float64,
	method domain.DetectionMethod,
	start time.Time,
) domain.DuplicateResult {
	result.IsDuplicate = true
	result.MatchID = matchID
	result.Similarity = score
	result.Method = method
	result.Elapsed = time.Since(start)

	if s.store != nil && result.DocID != "" {
		rel := domain.DuplicateRelation{
			SourceID:    result.DocID,
			CandidateID: matchID,
			Similarity:  score,
			Method:      method,
			DetectedAt:  time.Now().UTC(),
		}
		if err := s.store.SaveDuplicate(ctx, rel); err != nil {
			logger.Warn("failed to record duplicate relation %s -> %s: %v", result.DocID, matchID, err)
		}
	}

	return result
}

// AddDocument inserts a document into all sub-indexes and persists it.
// Partial failure is reported, not rolled back: retried adds overwrite
// cleanly, so at-least-once insertion is safe.
func (s *DetectorService) AddDocument(ctx context.Context, docID, text string) domain.AddResult {
	result := domain.AddResult{DocID: docID, Methods: []domain.DetectionMethod{}}

	if docID == "" {
		result.Error = fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput).Error()
		return result
	}

	normalized := similarity.Normalize(text)
	if utf8.RuneCountInString(normalized) < s.settings.MinTextLength {
		result.Error = domain.ErrTextTooShort.Error()
		return result
	}

	var firstErr error

	hash := similarity.ContentHash(text)
	s.hashes.Insert(hash, docID)
	result.Methods = append(result.Methods, domain.MethodHash)

	sig := s.hasher.Signature(normalized)
	if sig.Empty() {
		firstErr = fmt.Errorf("%w: text yields no shingles", domain.ErrInvalidInput)
	} else {
		s.lsh.Insert(docID, sig)
		result.Methods = append(result.Methods, domain.MethodLSH)
	}

	var vec []float32
	if s.vectorize != nil {
		var err error
		vec, err = s.vectorize(ctx, normalized, false)
		if err != nil {
			logger.Error("vectorizing %s failed: %v", docID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("vectorize: %w", err)
			}
		} else {
			s.vectors.Add(docID, vec)
			result.Methods = append(result.Methods, domain.MethodVector)
		}
	}

	if s.store != nil {
		rec := driven.DocumentRecord{ID: docID, ContentHash: hash, Text: normalized}
		if err := s.store.SaveDocument(ctx, rec); err != nil {
			logger.Error("persisting document %s failed: %v", docID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("save document: %w", err)
			}
		}
		if vec != nil {
			if err := s.store.SaveVector(ctx, docID, similarity.EncodeVector(vec)); err != nil {
				logger.Error("persisting vector for %s failed: %v", docID, err)
				if firstErr == nil {
					firstErr = fmt.Errorf("save vector: %w", err)
				}
			}
		}
	}

	if firstErr != nil {
		result.Error = firstErr.Error()
		return result
	}

	result.Added = true
	return result
}

// RemoveDocument retracts a document from every sub-index and deletes
// its durable records. Removal is idempotent; removing an unknown
// document reports Removed false without error.
func (s *DetectorService) RemoveDocument(ctx context.Context, docID string) domain.RemoveResult {
	result := domain.RemoveResult{DocID: docID, Methods: []domain.DetectionMethod{}}

	if docID == "" {
		result.Error = fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput).Error()
		return result
	}

	if s.hashes.Remove(docID) {
		result.Methods = append(result.Methods, domain.MethodHash)
	}
	if s.lsh.Remove(docID) {
		result.Methods = append(result.Methods, domain.MethodLSH)
	}
	if s.vectors.Remove(docID) {
		result.Methods = append(result.Methods, domain.MethodVector)
	}
	result.Removed = len(result.Methods) > 0

	if s.store != nil {
		if err := s.store.DeleteDocument(ctx, docID); err != nil && !isNotFound(err) {
			logger.Error("deleting document %s failed: %v", docID, err)
			result.Error = fmt.Sprintf("delete document: %v", err)
		}
		if err := s.store.DeleteVector(ctx, docID); err != nil && !isNotFound(err) {
			logger.Error("deleting vector for %s failed: %v", docID, err)
			if result.Error == "" {
				result.Error = fmt.Sprintf("delete vector: %v", err)
			}
		}
	}

	return result
}

// AnalyzeBatch runs FindDuplicates over texts in input order. When
// docIDs is nil, each text gets a synthetic identifier built from one
// batch ID and its position. Cancellation is honoured between
// documents; results gathered so far are returned alongside the error.
func (s *DetectorService) AnalyzeBatch(ctx context.Context, texts []string, docIDs []string) ([]domain.DuplicateResult, error) {
	if docIDs != nil && len(docIDs) != len(texts) {
		return nil, fmt.Errorf("%w: %d texts but %d document IDs",
			domain.ErrInvalidInput, len(texts), len(docIDs))
	}

	batchID := uuid.NewString()
	results := make([]domain.DuplicateResult, 0, len(texts))

	for i, text := range texts {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		docID := ""
		if docIDs != nil {
			docID = docIDs[i]
		} else {
			docID = fmt.Sprintf("%s-%04d", batchID, i)
		}

		opts := domain.DefaultDetectionOptions()
		opts.DocID = docID
		results = append(results, s.FindDuplicates(ctx, text, opts))
	}

	return results, nil
}

// LoadIndexes warms the in-memory indexes from the detection store.
// Vector load failure is downgraded to a warning so the cheaper stages
// still come up; only a document load failure is returned.
func (s *DetectorService) LoadIndexes(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	docs, err := s.store.LoadAllDocuments(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	for _, rec := range docs {
		s.hashes.Insert(rec.ContentHash, rec.ID)
		if sig := s.hasher.Signature(rec.Text); !sig.Empty() {
			s.lsh.Insert(rec.ID, sig)
		}
	}

	vecs, err := s.store.LoadAllVectors(ctx)
	if err != nil {
		logger.Warn("loading vectors failed, vector stage starts empty: %v", err)
	} else {
		for _, rec := range vecs {
			vec, decErr := similarity.DecodeVector(rec.Data)
			if decErr != nil {
				logger.Warn("skipping undecodable vector for %s: %v", rec.DocID, decErr)
				continue
			}
			s.vectors.Add(rec.DocID, vec)
		}
	}

	logger.Debug("indexes loaded: %d documents, %d vectors", len(docs), s.vectors.Len())
	return nil
}

// Stats returns the current size of each sub-index.
func (s *DetectorService) Stats() domain.IndexStats {
	return domain.IndexStats{
		HashEntries: s.hashes.Len(),
		LSHEntries:  s.lsh.Len(),
		Vectors:     s.vectors.Len(),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

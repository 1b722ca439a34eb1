// Package memory provides an in-memory implementation of the
// DetectionStore port, used in tests and for ephemeral runs where no
// data directory is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DetectionStore = (*Store)(nil)

// Store is an in-memory implementation of driven.DetectionStore.
type Store struct {
	mu         sync.RWMutex
	documents  map[string]driven.DocumentRecord
	vectors    map[string][]byte
	duplicates []domain.DuplicateRelation
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[string]driven.DocumentRecord),
		vectors:   make(map[string][]byte),
	}
}

// LoadAllDocuments returns every stored document record.
func (s *Store) LoadAllDocuments(_ context.Context) ([]driven.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]driven.DocumentRecord, 0, len(s.documents))
	for _, rec := range s.documents {
		records = append(records, rec)
	}
	return records, nil
}

// LoadAllVectors returns every stored vector blob.
func (s *Store) LoadAllVectors(_ context.Context) ([]driven.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]driven.VectorRecord, 0, len(s.vectors))
	for docID, data := range s.vectors {
		blob := make([]byte, len(data))
		copy(blob, data)
		records = append(records, driven.VectorRecord{DocID: docID, Data: blob})
	}
	return records, nil
}

// SaveDocument stores or updates a document record.
func (s *Store) SaveDocument(_ context.Context, rec driven.DocumentRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[rec.ID] = rec
	return nil
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[docID]; !ok {
		return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	delete(s.documents, docID)
	return nil
}

// SaveVector stores or updates a document's vector blob.
func (s *Store) SaveVector(_ context.Context, docID string, data []byte) error {
	if docID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blob := make([]byte, len(data))
	copy(blob, data)
	s.vectors[docID] = blob
	return nil
}

// DeleteVector removes a document's vector blob.
func (s *Store) DeleteVector(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vectors[docID]; !ok {
		return fmt.Errorf("vector for %s: %w", docID, domain.ErrNotFound)
	}
	delete(s.vectors, docID)
	return nil
}

// SaveDuplicate records a detected duplicate relation.
func (s *Store) SaveDuplicate(_ context.Context, rel domain.DuplicateRelation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duplicates = append(s.duplicates, rel)
	return nil
}

// ListDuplicates returns relations involving the document, newest
// first. An empty docID lists all relations.
func (s *Store) ListDuplicates(_ context.Context, docID string) ([]domain.DuplicateRelation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DuplicateRelation
	for i := len(s.duplicates) - 1; i >= 0; i-- {
		rel := s.duplicates[i]
		if docID == "" || rel.SourceID == docID || rel.CandidateID == docID {
			out = append(out, rel)
		}
	}
	return out, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

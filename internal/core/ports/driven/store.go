package driven

import (
	"context"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

// DocumentRecord is the durable projection of an indexed document,
// used to warm the in-memory indexes at startup.
type DocumentRecord struct {
	// ID is the document identifier.
	ID string

	// ContentHash is the SHA-256 hex digest of the normalised text.
	ContentHash string

	// Text is the normalised full text, kept so MinHash signatures can
	// be rebuilt without re-running extraction.
	Text string
}

// VectorRecord pairs a document with its serialised vector blob.
// The blob layout is owned by the pipeline's codec and opaque here.
type VectorRecord struct {
	// DocID is the document identifier.
	DocID string

	// Data is the encoded vector blob.
	Data []byte
}

// DetectionStore persists documents, vectors, and duplicate relations.
// Backed by SQLite. The in-memory indexes own detection state; the
// store owns the durable copies used to rebuild them.
type DetectionStore interface {
	// LoadAllDocuments returns every stored document record.
	LoadAllDocuments(ctx context.Context) ([]DocumentRecord, error)

	// LoadAllVectors returns every stored vector blob.
	LoadAllVectors(ctx context.Context) ([]VectorRecord, error)

	// SaveDocument stores or updates a document record.
	SaveDocument(ctx context.Context, rec DocumentRecord) error

	// DeleteDocument removes a document record.
	// Returns domain.ErrNotFound if no record exists.
	DeleteDocument(ctx context.Context, docID string) error

	// SaveVector stores or updates a document's vector blob.
	// Overwrite semantics keep retried adds idempotent.
	SaveVector(ctx context.Context, docID string, data []byte) error

	// DeleteVector removes a document's vector blob.
	// Returns domain.ErrNotFound if no blob exists.
	DeleteVector(ctx context.Context, docID string) error

	// SaveDuplicate records a detected duplicate relation.
	SaveDuplicate(ctx context.Context, rel domain.DuplicateRelation) error

	// ListDuplicates returns relations involving the document, newest
	// first. An empty docID lists all relations.
	ListDuplicates(ctx context.Context, docID string) ([]domain.DuplicateRelation, error)

	// Close releases resources.
	Close() error
}

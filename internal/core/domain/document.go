package domain

import "time"

// Document represents a text document tracked by the detection indexes.
// It is the canonical representation after normalisation; durable copies
// live in the detection store.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Text is the full text content after normalisation.
	Text string

	// ContentHash is the SHA-256 hex digest of the normalised text.
	ContentHash string

	// Vector is the vectorizer output for the text, when computed.
	Vector []float32

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time
}

// DuplicateRelation records a detected duplicate pair. Relations are
// produced by the pipeline and handed to the detection store; the
// pipeline itself keeps no history.
type DuplicateRelation struct {
	// SourceID is the document being checked.
	SourceID string

	// CandidateID is the stored document it matched.
	CandidateID string

	// Similarity is the score reported by the matching stage (0-1).
	Similarity float64

	// Method is the stage that produced the match.
	Method DetectionMethod

	// DetectedAt is when the match was recorded.
	DetectedAt time.Time
}

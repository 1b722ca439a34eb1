package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTextTooShort indicates the input text is below the minimum
	// length for reliable duplicate detection. Returned as a structured
	// result field, never as a pipeline crash.
	ErrTextTooShort = errors.New("text too short for reliable detection")

	// ErrVectorizerUnavailable indicates no vectorizer is configured.
	// The vector stage is skipped without one.
	ErrVectorizerUnavailable = errors.New("vectorizer unavailable")

	// ErrStoreUnavailable indicates the persistence store is not configured.
	ErrStoreUnavailable = errors.New("detection store unavailable")

	// ErrCacheUnavailable indicates the cache backing store cannot be
	// reached. Cache operations degrade to no-ops; this error is only
	// surfaced by explicit health checks.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrDimensionMismatch indicates two vectors cannot be compared
	// because they have different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

package domain

import "time"

// DetectionMethod identifies which pipeline stage produced a verdict.
type DetectionMethod string

// Available detection methods, in pipeline execution order.
const (
	// MethodHash is the exact SHA-256 content hash stage.
	MethodHash DetectionMethod = "hash"

	// MethodLSH is the MinHash/LSH approximate set-similarity stage.
	MethodLSH DetectionMethod = "lsh"

	// MethodVector is the brute-force cosine similarity stage.
	MethodVector DetectionMethod = "vector"
)

// IsValid returns true if the detection method is recognised.
func (m DetectionMethod) IsValid() bool {
	switch m {
	case MethodHash, MethodLSH, MethodVector:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m DetectionMethod) String() string {
	return string(m)
}

// DetectionOptions controls which stages a FindDuplicates call runs.
// The zero value disables nothing; use DefaultDetectionOptions.
type DetectionOptions struct {
	// DocID optionally identifies the document being checked, so it is
	// excluded from candidate matches and recorded on relations.
	DocID string

	// CheckHash enables the exact-match stage.
	CheckHash bool

	// CheckLSH enables the MinHash/LSH stage.
	CheckLSH bool

	// CheckVector enables the vector similarity stage.
	CheckVector bool
}

// DefaultDetectionOptions enables all stages.
func DefaultDetectionOptions() DetectionOptions {
	return DetectionOptions{CheckHash: true, CheckLSH: true, CheckVector: true}
}

// DuplicateResult is the outcome of one duplicate-detection call.
// A failed call still yields a well-formed result: IsDuplicate false,
// StagesAttempted listing whatever ran, and Error set when the input
// was rejected.
type DuplicateResult struct {
	// DocID is the identifier of the checked document, when known.
	DocID string `json:"doc_id,omitempty"`

	// IsDuplicate is true if any stage reported a match.
	IsDuplicate bool `json:"is_duplicate"`

	// MatchID is the stored document the input matched.
	// Only set when IsDuplicate is true.
	MatchID string `json:"match_id,omitempty"`

	// Similarity is the score from the matching stage (0-1).
	// Exact hash matches report 1.0.
	Similarity float64 `json:"similarity"`

	// Method is the stage that short-circuited the pipeline.
	// Empty when no stage matched.
	Method DetectionMethod `json:"method,omitempty"`

	// StagesAttempted lists the stages that ran, in order.
	StagesAttempted []DetectionMethod `json:"stages_attempted"`

	// Elapsed is the total processing latency for the call.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Error describes an input rejection (e.g. text too short).
	// Input rejection is a structured result, not a failure of the call.
	Error string `json:"error,omitempty"`
}

// AddResult reports the per-index outcome of adding a document.
// A partial failure leaves the succeeded indexes in place: adds are
// retried idempotently rather than rolled back.
type AddResult struct {
	// DocID is the added document.
	DocID string `json:"doc_id"`

	// Added is true if every sub-index accepted the document.
	Added bool `json:"added"`

	// Methods lists the sub-indexes that succeeded.
	Methods []DetectionMethod `json:"methods"`

	// Error describes the first failure, when any sub-index failed.
	Error string `json:"error,omitempty"`
}

// IndexStats reports the current size of each sub-index.
type IndexStats struct {
	// HashEntries is the number of distinct content hashes.
	HashEntries int `json:"hash_entries"`

	// LSHEntries is the number of documents in the LSH index.
	LSHEntries int `json:"lsh_entries"`

	// Vectors is the number of stored vectors.
	Vectors int `json:"vectors"`
}

// RemoveResult reports the per-index outcome of removing a document.
type RemoveResult struct {
	// DocID is the removed document.
	DocID string `json:"doc_id"`

	// Removed is true if at least one sub-index had an entry to remove.
	Removed bool `json:"removed"`

	// Methods lists the sub-indexes that held (and dropped) an entry.
	Methods []DetectionMethod `json:"methods"`

	// Error describes the first failure, when any sub-index failed.
	Error string `json:"error,omitempty"`
}

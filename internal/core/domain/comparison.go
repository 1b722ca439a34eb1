package domain

// ComparisonResult holds the detailed similarity report for a document
// pair. Pair results are cached under an order-independent key, so
// comparing (A,B) and (B,A) yields the same entry.
type ComparisonResult struct {
	// DocA and DocB identify the compared documents, sorted.
	DocA string `json:"doc_a"`
	DocB string `json:"doc_b"`

	// Similarity is the document-level cosine similarity (0-1).
	Similarity float64 `json:"similarity"`

	// Diff summarises line- and word-level differences.
	Diff DiffStats `json:"diff"`

	// SimilarSections lists paragraph pairs above the section threshold.
	SimilarSections []SectionMatch `json:"similar_sections,omitempty"`
}

// DiffStats summarises textual differences between two documents.
type DiffStats struct {
	// Additions counts lines present only in the second document.
	Additions int `json:"additions"`

	// Deletions counts lines present only in the first document.
	Deletions int `json:"deletions"`

	// Common counts lines shared by both documents.
	Common int `json:"common"`

	// LineSimilarity is 2*Common over the total line count (0-1).
	LineSimilarity float64 `json:"line_similarity"`

	// WordSimilarity is the Jaccard similarity of the word sets (0-1).
	WordSimilarity float64 `json:"word_similarity"`
}

// SectionMatch identifies a pair of similar paragraphs across documents.
type SectionMatch struct {
	// IndexA and IndexB are paragraph ordinals in each document.
	IndexA int `json:"index_a"`
	IndexB int `json:"index_b"`

	// SnippetA and SnippetB preview the matched paragraphs.
	SnippetA string `json:"snippet_a"`
	SnippetB string `json:"snippet_b"`

	// Similarity is the paragraph match ratio (0-1).
	Similarity float64 `json:"similarity"`
}

// PageMatch identifies a pair of similar pages within one document.
type PageMatch struct {
	// PageA and PageB are zero-based page indexes.
	PageA int `json:"page_a"`
	PageB int `json:"page_b"`

	// Similarity is the page-level cosine similarity (0-1).
	Similarity float64 `json:"similarity"`
}

package driven

import "context"

// Vectorizer converts normalised text into a numeric vector. The
// pipeline is agnostic to the representation (sparse hashed TF-IDF or
// a dense embedding) as long as cosine similarity is well-defined
// over its output.
//
// Implementations may include:
//   - Hashed TF-IDF (pure function, no external service)
//   - Dense embeddings via an inference server (Ollama-compatible)
type Vectorizer interface {
	// Vectorize generates a vector for the given text.
	Vectorize(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector size this implementation produces.
	Dimensions() int

	// Name returns a short identifier for logging.
	Name() string

	// Close releases resources.
	Close() error
}

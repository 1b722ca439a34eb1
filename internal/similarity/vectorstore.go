package similarity

import (
	"runtime"
	"sync"

	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

// VectorStore holds per-document vectors for brute-force cosine
// comparison. The scan is O(N) per query, which is acceptable at
// moderate corpus sizes and why the vector stage runs last. Scans are
// parallelised across a bounded worker pool because they are the
// dominant CPU cost in the pipeline.
type VectorStore struct {
	mu   sync.RWMutex
	ids  []string // insertion order, for stable tie-breaking
	vecs map[string][]float32
}

// NewVectorStore creates an empty vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{vecs: make(map[string][]float32)}
}

// Add stores a vector for a document. Re-adding an existing document
// overwrites its vector and keeps its original position.
func (s *VectorStore) Add(docID string, vec []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vecs[docID]; !exists {
		s.ids = append(s.ids, docID)
	}
	s.vecs[docID] = vec
}

// Remove deletes a document's vector. Returns true if one existed.
func (s *VectorStore) Remove(docID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vecs[docID]; !exists {
		return false
	}
	delete(s.vecs, docID)
	for i, id := range s.ids {
		if id == docID {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the stored vector for a document.
func (s *VectorStore) Get(docID string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vecs[docID]
	return v, ok
}

// Len returns the number of stored vectors.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vecs)
}

// scanHit is a per-worker best candidate.
type scanHit struct {
	pos int
	sim float64
}

// BestMatch scans every stored vector and returns the document with
// the highest cosine similarity to the query. Ties keep the
// earliest-inserted document. excludeID is skipped so a document
// never matches itself.
func (s *VectorStore) BestMatch(query []float32, excludeID string) (string, float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.ids)
	if n == 0 {
		return "", 0, false
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	hits := make([]scanHit, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			best := scanHit{pos: -1, sim: -1}
			for i := start; i < end; i++ {
				id := s.ids[i]
				if id == excludeID {
					continue
				}
				sim, err := Cosine(query, s.vecs[id])
				if err != nil {
					// Incomparable vectors (e.g. dimension change after a
					// vectorizer swap) are skipped, not fatal.
					logger.Debug("skipping vector for %s: %v", id, err)
					continue
				}
				if sim > best.sim {
					best = scanHit{pos: i, sim: sim}
				}
			}
			hits[w] = best
		}(w, start, end)
	}
	wg.Wait()

	merged := scanHit{pos: -1, sim: -1}
	for _, h := range hits {
		if h.pos < 0 {
			continue
		}
		if h.sim > merged.sim || (h.sim == merged.sim && h.pos < merged.pos) {
			merged = h
		}
	}
	if merged.pos < 0 {
		return "", 0, false
	}
	return s.ids[merged.pos], merged.sim, true
}

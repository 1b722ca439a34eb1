package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// ContentHash returns the SHA-256 hex digest of the normalised text.
// Any textual difference after normalisation changes the digest, so
// exact-match lookups have zero false positives.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// HashIndex maps content hashes to document IDs for O(1) exact-match
// lookup. Re-inserting the same hash overwrites the owner, which makes
// retried adds idempotent.
type HashIndex struct {
	mu     sync.RWMutex
	byHash map[string]string
	byID   map[string][]string
}

// NewHashIndex creates an empty exact-match index.
func NewHashIndex() *HashIndex {
	return &HashIndex{
		byHash: make(map[string]string),
		byID:   make(map[string][]string),
	}
}

// Insert records a content hash for a document.
func (x *HashIndex) Insert(hash, docID string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if prev, ok := x.byHash[hash]; ok {
		if prev == docID {
			return
		}
		x.dropHashFromID(prev, hash)
	}
	x.byHash[hash] = docID
	x.byID[docID] = append(x.byID[docID], hash)
}

// Lookup returns the document that owns the given content hash.
func (x *HashIndex) Lookup(hash string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	id, ok := x.byHash[hash]
	return id, ok
}

// Remove drops every hash entry pointing to the document.
// Returns true if the document had at least one entry.
func (x *HashIndex) Remove(docID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	hashes, ok := x.byID[docID]
	if !ok {
		return false
	}
	for _, h := range hashes {
		if x.byHash[h] == docID {
			delete(x.byHash, h)
		}
	}
	delete(x.byID, docID)
	return true
}

// Len returns the number of distinct hashes indexed.
func (x *HashIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byHash)
}

// dropHashFromID removes one hash from a document's reverse entry.
// Caller must hold the write lock.
func (x *HashIndex) dropHashFromID(docID, hash string) {
	hashes := x.byID[docID]
	for i, h := range hashes {
		if h == hash {
			x.byID[docID] = append(hashes[:i], hashes[i+1:]...)
			break
		}
	}
	if len(x.byID[docID]) == 0 {
		delete(x.byID, docID)
	}
}

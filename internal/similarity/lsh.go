package similarity

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
	"sync"
)

// LSHIndex buckets MinHash signatures into bands for sub-linear
// candidate retrieval. Two documents land in the same bucket when one
// full band of their signatures agrees, so near-duplicates surface as
// candidates without pairwise scans.
//
// Invariant: a present document contributes exactly one entry per
// band; Remove retracts every bucket membership.
type LSHIndex struct {
	mu      sync.RWMutex
	bands   int
	rows    int
	buckets []map[uint64][]string // per band: bucket key -> doc IDs
	sigs    map[string]Signature
	seq     map[string]int // insertion order for stable tie-breaking
	nextSeq int
}

// NewLSHIndex creates an index for signatures of bands*rows slots.
func NewLSHIndex(bands, rows int) *LSHIndex {
	buckets := make([]map[uint64][]string, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64][]string)
	}
	return &LSHIndex{
		bands:   bands,
		rows:    rows,
		buckets: buckets,
		sigs:    make(map[string]Signature),
		seq:     make(map[string]int),
	}
}

// Insert adds a document's signature to every band bucket.
// Re-inserting an existing document replaces its previous signature;
// the original insertion order is kept so tie-breaking stays stable.
func (x *LSHIndex) Insert(docID string, sig Signature) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.sigs[docID]; exists {
		x.removeLocked(docID, true)
	}
	if _, seen := x.seq[docID]; !seen {
		x.seq[docID] = x.nextSeq
		x.nextSeq++
	}

	x.sigs[docID] = sig
	for band := 0; band < x.bands; band++ {
		key := x.bandKey(band, sig)
		x.buckets[band][key] = append(x.buckets[band][key], docID)
	}
}

// Remove retracts all bucket memberships of a document.
// Returns true if the document was present.
func (x *LSHIndex) Remove(docID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.removeLocked(docID, false)
}

// Contains reports whether the document is present.
func (x *LSHIndex) Contains(docID string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.sigs[docID]
	return ok
}

// Len returns the number of indexed documents.
func (x *LSHIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.sigs)
}

// Query returns the IDs of documents sharing at least one band bucket
// with the query signature, in first-seen insertion order.
func (x *LSHIndex) Query(sig Signature) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]struct{})
	var candidates []string
	for band := 0; band < x.bands; band++ {
		key := x.bandKey(band, sig)
		for _, id := range x.buckets[band][key] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return x.seq[candidates[i]] < x.seq[candidates[j]]
	})
	return candidates
}

// BestMatch finds the candidate with the highest estimated Jaccard
// similarity to the query signature. Ties keep the earliest-inserted
// candidate. excludeID is skipped so a document never matches itself.
func (x *LSHIndex) BestMatch(sig Signature, excludeID string) (string, float64, bool) {
	candidates := x.Query(sig)

	x.mu.RLock()
	defer x.mu.RUnlock()

	bestID := ""
	bestSim := -1.0
	for _, id := range candidates {
		if id == excludeID {
			continue
		}
		if est := sig.Estimate(x.sigs[id]); est > bestSim {
			bestID = id
			bestSim = est
		}
	}
	if bestID == "" {
		return "", 0, false
	}
	return bestID, bestSim, true
}

// removeLocked removes a document from all buckets. When keepSeq is
// true the insertion-order entry survives (used for re-insertion).
// Caller must hold the write lock.
func (x *LSHIndex) removeLocked(docID string, keepSeq bool) bool {
	sig, ok := x.sigs[docID]
	if !ok {
		return false
	}

	for band := 0; band < x.bands; band++ {
		key := x.bandKey(band, sig)
		ids := x.buckets[band][key]
		for i, id := range ids {
			if id == docID {
				x.buckets[band][key] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(x.buckets[band][key]) == 0 {
			delete(x.buckets[band], key)
		}
	}

	delete(x.sigs, docID)
	if !keepSeq {
		delete(x.seq, docID)
	}
	return true
}

// bandKey hashes one band of the signature into a bucket key.
func (x *LSHIndex) bandKey(band int, sig Signature) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(band))
	_, _ = h.Write(buf[:])

	start := band * x.rows
	for i := start; i < start+x.rows && i < len(sig); i++ {
		binary.LittleEndian.PutUint64(buf[:], sig[i])
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

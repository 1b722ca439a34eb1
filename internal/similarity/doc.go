// Package similarity implements the index primitives behind the
// duplicate-detection pipeline: text normalisation, SHA-256 content
// hashing, MinHash signatures with banded LSH candidate retrieval,
// a brute-force cosine vector store, and text diff utilities.
//
// The indexes hold in-memory state only; durable copies live behind
// the detection store port. All index types are safe for concurrent
// readers with serialized writers.
package similarity

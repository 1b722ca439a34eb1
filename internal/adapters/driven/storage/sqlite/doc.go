// Package sqlite provides a SQLite-based implementation of the
// DetectionStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists
// the durable copies of detection state:
//
//   - documents: identifier, content hash, and normalised text
//   - vectors: encoded vector blobs, one per document
//   - duplicates: the log of detected duplicate relations
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.dedupe/data/detection.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite

package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/dedupe-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DetectionStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.DetectionStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.dedupe/data/detection.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".dedupe", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "detection.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// LoadAllDocuments returns every stored document record.
func (s *Store) LoadAllDocuments(ctx context.Context) ([]driven.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_hash, text FROM documents
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []driven.DocumentRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.DocumentRecord
		if err := rows.Scan(&rec.ID, &rec.ContentHash, &rec.Text); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return records, nil
}

// LoadAllVectors returns every stored vector blob.
func (s *Store) LoadAllVectors(ctx context.Context) ([]driven.VectorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, data FROM vectors
	`)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var records []driven.VectorRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.VectorRecord
		if err := rows.Scan(&rec.DocID, &rec.Data); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	return records, nil
}

// SaveDocument stores or updates a document record.
func (s *Store) SaveDocument(ctx context.Context, rec driven.DocumentRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, content_hash, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_hash = excluded.content_hash,
			text = excluded.text,
			updated_at = excluded.updated_at
	`, rec.ID, rec.ContentHash, rec.Text, now, now)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document record.
func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", docID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	return nil
}

// SaveVector stores or updates a document's vector blob.
func (s *Store) SaveVector(ctx context.Context, docID string, data []byte) error {
	if docID == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vectors (doc_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, docID, data, now)

	if err != nil {
		return fmt.Errorf("saving vector: %w", err)
	}
	return nil
}

// DeleteVector removes a document's vector blob.
func (s *Store) DeleteVector(ctx context.Context, docID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM vectors WHERE doc_id = ?", docID)
	if err != nil {
		return fmt.Errorf("deleting vector: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("vector for %s: %w", docID, domain.ErrNotFound)
	}
	return nil
}

// SaveDuplicate records a detected duplicate relation.
func (s *Store) SaveDuplicate(ctx context.Context, rel domain.DuplicateRelation) error {
	if rel.DetectedAt.IsZero() {
		rel.DetectedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO duplicates (source_id, candidate_id, similarity, method, detected_at)
		VALUES (?, ?, ?, ?, ?)
	`, rel.SourceID, rel.CandidateID, rel.Similarity, string(rel.Method), rel.DetectedAt)

	if err != nil {
		return fmt.Errorf("saving duplicate relation: %w", err)
	}
	return nil
}

// ListDuplicates returns relations involving the document, newest
// first. An empty docID lists all relations.
func (s *Store) ListDuplicates(ctx context.Context, docID string) ([]domain.DuplicateRelation, error) {
	query := `
		SELECT source_id, candidate_id, similarity, method, detected_at
		FROM duplicates
	`
	var args []any
	if docID != "" {
		query += " WHERE source_id = ? OR candidate_id = ?"
		args = append(args, docID, docID)
	}
	query += " ORDER BY detected_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying duplicates: %w", err)
	}
	defer rows.Close()

	var rels []domain.DuplicateRelation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rel domain.DuplicateRelation
		var method string
		var detectedAt sql.NullTime
		if err := rows.Scan(&rel.SourceID, &rel.CandidateID, &rel.Similarity, &method, &detectedAt); err != nil {
			return nil, fmt.Errorf("scanning duplicate relation: %w", err)
		}
		rel.Method = domain.DetectionMethod(method)
		if detectedAt.Valid {
			rel.DetectedAt = detectedAt.Time
		}
		rels = append(rels, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate relations: %w", err)
	}

	return rels, nil
}

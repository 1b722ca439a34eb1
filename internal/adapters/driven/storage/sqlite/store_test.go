package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := driven.DocumentRecord{ID: "doc-1", ContentHash: "abc123", Text: "some normalised text"}
	require.NoError(t, store.SaveDocument(ctx, rec))

	docs, err := store.LoadAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, rec, docs[0])
}

func TestSaveDocument_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "old", Text: "old"}))
	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "new", Text: "new"}))

	docs, err := store.LoadAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "new", docs[0].ContentHash)
}

func TestSaveDocument_RequiresID(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveDocument(context.Background(), driven.DocumentRecord{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "h", Text: "t"}))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	docs, err := store.LoadAllDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteDocument(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveVector_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "h", Text: "t"}))
	require.NoError(t, store.SaveVector(ctx, "doc-1", []byte{1, 2, 3, 4}))

	vecs, err := store.LoadAllVectors(ctx)
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Equal(t, "doc-1", vecs[0].DocID)
	assert.Equal(t, []byte{1, 2, 3, 4}, vecs[0].Data)
}

func TestSaveVector_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "h", Text: "t"}))
	require.NoError(t, store.SaveVector(ctx, "doc-1", []byte{1}))
	require.NoError(t, store.SaveVector(ctx, "doc-1", []byte{2}))

	vecs, err := store.LoadAllVectors(ctx)
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Equal(t, []byte{2}, vecs[0].Data)
}

func TestDeleteDocument_CascadesVector(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "h", Text: "t"}))
	require.NoError(t, store.SaveVector(ctx, "doc-1", []byte{1}))
	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	vecs, err := store.LoadAllVectors(ctx)
	require.NoError(t, err)
	assert.Empty(t, vecs)

	assert.ErrorIs(t, store.DeleteVector(ctx, "doc-1"), domain.ErrNotFound)
}

func TestSaveDuplicate_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDuplicate(ctx, domain.DuplicateRelation{
		SourceID: "doc-b", CandidateID: "doc-a", Similarity: 1.0,
		Method: domain.MethodHash, DetectedAt: base,
	}))
	require.NoError(t, store.SaveDuplicate(ctx, domain.DuplicateRelation{
		SourceID: "doc-c", CandidateID: "doc-a", Similarity: 0.9,
		Method: domain.MethodLSH, DetectedAt: base.Add(time.Hour),
	}))

	rels, err := store.ListDuplicates(ctx, "doc-a")
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, "doc-c", rels[0].SourceID)
	assert.Equal(t, domain.MethodLSH, rels[0].Method)
	assert.Equal(t, "doc-b", rels[1].SourceID)
}

func TestListDuplicates_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDuplicate(ctx, domain.DuplicateRelation{
		SourceID: "doc-b", CandidateID: "doc-a", Similarity: 1.0, Method: domain.MethodHash,
	}))
	require.NoError(t, store.SaveDuplicate(ctx, domain.DuplicateRelation{
		SourceID: "doc-d", CandidateID: "doc-c", Similarity: 0.9, Method: domain.MethodVector,
	}))

	rels, err := store.ListDuplicates(ctx, "doc-a")
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "doc-b", rels[0].SourceID)

	all, err := store.ListDuplicates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, driven.DocumentRecord{ID: "doc-1", ContentHash: "h", Text: "t"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	docs, err := reopened.LoadAllDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

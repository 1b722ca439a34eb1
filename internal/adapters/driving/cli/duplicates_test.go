package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storemem "github.com/custodia-labs/dedupe-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
)

func TestDuplicatesCmd_ListsRelations(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	store := storemem.NewStore()
	require.NoError(t, store.SaveDuplicate(context.Background(), domain.DuplicateRelation{
		SourceID: "doc-b", CandidateID: "doc-a", Similarity: 0.93, Method: domain.MethodLSH,
	}))
	oldStore := detectionStore
	detectionStore = store
	defer func() { detectionStore = oldStore }()

	out, err := execute(t, "duplicates", "doc-a")

	assert.NoError(t, err)
	assert.Contains(t, out, "doc-b -> doc-a")
	assert.Contains(t, out, "0.930")
}

func TestDuplicatesCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	oldStore := detectionStore
	detectionStore = storemem.NewStore()
	defer func() { detectionStore = oldStore }()

	out, err := execute(t, "duplicates")

	assert.NoError(t, err)
	assert.Contains(t, out, "No duplicate relations recorded")
}

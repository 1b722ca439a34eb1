package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatchDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestBatchCmd_Use(t *testing.T) {
	assert.Equal(t, "batch [dir]", batchCmd.Use)
}

func TestBatchCmd_ChecksFilesInOrder(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeBatchDir(t, map[string]string{
		"a.txt": "first document",
		"b.txt": "second document",
	})

	out, err := execute(t, "batch", dir)

	assert.NoError(t, err)
	assert.Contains(t, out, "a.txt: duplicate of doc-a")
	assert.Contains(t, out, "b.txt: duplicate of doc-a")
	assert.Contains(t, out, "2 checked: 2 duplicates")
}

func TestBatchCmd_SkipsNonMatchingFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeBatchDir(t, map[string]string{
		"doc.txt":     "document",
		"notes.md":    "ignored",
		".hidden.txt": "ignored",
	})

	out, err := execute(t, "batch", dir)

	assert.NoError(t, err)
	assert.Contains(t, out, "doc.txt")
	assert.NotContains(t, out, "notes.md")
	assert.NotContains(t, out, ".hidden.txt")
}

func TestBatchCmd_EmptyDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "batch", t.TempDir())

	assert.NoError(t, err)
	assert.Contains(t, out, "No .txt files found")
}

func TestBatchCmd_MissingDir(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "batch", "/nonexistent/dir")

	assert.Error(t, err)
}

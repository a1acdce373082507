package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/internal/chunker/languages"
	"github.com/dshills/booger/internal/store"
)

func newTestIndexer(t *testing.T) (*Indexer, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, ".booger", "index.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0o755))

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	r := chunker.NewRegistry()
	languages.RegisterAll(r)

	return New(s, chunker.New(r)), s, dir
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestIndexProject_IndexesNewFiles(t *testing.T) {
	idx, s, root := newTestIndexer(t)
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeProjectFile(t, root, "util.go", "package main\n\nfunc helper() int { return 1 }\n")

	stats, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 2, stats.Indexed)
	assert.Equal(t, 0, stats.Unchanged)
	assert.Positive(t, stats.ChunksProduced)

	f, err := s.GetFileByPath(context.Background(), "main.go")
	require.NoError(t, err)
	assert.Equal(t, "go", f.Language)
}

func TestIndexProject_SecondRunSkipsUnchanged(t *testing.T) {
	idx, _, root := newTestIndexer(t)
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	_, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)

	stats, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Unchanged)
}

func TestIndexProject_ReindexesChangedFile(t *testing.T) {
	idx, s, root := newTestIndexer(t)
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	_, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)

	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n")
	stats, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	chunks, err := s.ListChunksByFile(context.Background(), mustFileID(t, s, "main.go"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "println")
}

func TestIndexProject_DeletesVanishedFiles(t *testing.T) {
	idx, s, root := newTestIndexer(t)
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeProjectFile(t, root, "temp.go", "package main\n\nfunc temp() {}\n")
	_, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "temp.go")))

	stats, err := idx.IndexProject(context.Background(), root, Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Removed)

	_, err = s.GetFileByPath(context.Background(), "temp.go")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIndexProject_RejectsConcurrentRunsOnSameRoot(t *testing.T) {
	idx, _, root := newTestIndexer(t)
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")

	lock := idx.lockFor(root)
	require.True(t, lock.TryAcquire())
	defer lock.Release()

	_, err := idx.IndexProject(context.Background(), root, Config{})
	assert.ErrorIs(t, err, ErrIndexInProgress)
}

func mustFileID(t *testing.T, s *store.Store, path string) int64 {
	t.Helper()
	f, err := s.GetFileByPath(context.Background(), path)
	require.NoError(t, err)
	return f.ID
}

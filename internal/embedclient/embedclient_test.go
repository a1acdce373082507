package embedclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

func fakeOllama(t *testing.T, dim int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			v := make([]float32, dim)
			for j := range v {
				v[j] = float32(len(req.Input[i]) + j)
			}
			embeddings[i] = v
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: embeddings})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestEmbed_CachesByContentHash(t *testing.T) {
	srv, calls := fakeOllama(t, 4)
	c := New(srv.URL, "test-model")

	v1, err := c.Embed(context.Background(), "func Foo() {}")
	require.NoError(t, err)
	v2, err := c.Embed(context.Background(), "func Foo() {}")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestEmbed_RejectsEmptyText(t *testing.T) {
	c := New("http://unused", "test-model")
	_, err := c.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestEmbedBatch_SkipsCachedEntries(t *testing.T) {
	srv, calls := fakeOllama(t, 4)
	c := New(srv.URL, "test-model")

	_, err := c.Embed(context.Background(), "alpha")
	require.NoError(t, err)

	results, err := c.EmbedBatch(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestEmbedBatch_ReturnsResultsInInputOrder(t *testing.T) {
	srv, _ := fakeOllama(t, 2)
	c := New(srv.URL, "test-model")

	results, err := c.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NotEqual(t, results[0], results[1])
}

func TestEmbed_NonOKStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-model")
	_, err := c.Embed(context.Background(), "text")
	assert.Error(t, err)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertFileAndChunk(t *testing.T, s *store.Store, path, content string) *types.Chunk {
	t.Helper()
	ctx := context.Background()
	f := &types.File{Path: path, Language: "go", ContentHash: [32]byte{1}}
	require.NoError(t, s.UpsertFile(ctx, f))
	ch := &types.Chunk{
		FileID:    f.ID,
		Kind:      types.ChunkFunction,
		Name:      "Foo",
		Content:   content,
		StartLine: 1,
		EndLine:   3,
	}
	require.NoError(t, s.UpsertChunk(ctx, ch))
	return ch
}

func TestBackfill_EmbedsChunksLackingAnEmbedding(t *testing.T) {
	s := newTestStore(t)
	insertFileAndChunk(t, s, "a.go", "func Foo() {}")
	insertFileAndChunk(t, s, "b.go", "func Bar() {}")

	srv, _ := fakeOllama(t, 4)
	c := New(srv.URL, "test-model")

	res, err := Backfill(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Embedded)

	embeddings, err := s.EmbeddingsForModel(context.Background(), "test-model")
	require.NoError(t, err)
	assert.Len(t, embeddings, 2)
}

func TestBackfill_SkipsChunksWithEmptyContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := &types.File{Path: "a.go", Language: "go", ContentHash: [32]byte{2}}
	require.NoError(t, s.UpsertFile(ctx, f))
	ch := &types.Chunk{FileID: f.ID, Kind: types.ChunkImport, Name: "fmt", StartLine: 1, EndLine: 1}
	require.NoError(t, s.UpsertChunk(ctx, ch))

	srv, _ := fakeOllama(t, 4)
	c := New(srv.URL, "test-model")

	res, err := Backfill(ctx, s, c)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Embedded)
	assert.Equal(t, 1, res.Skipped)
}

func TestBackfill_SecondRunEmbedsNothingNew(t *testing.T) {
	s := newTestStore(t)
	insertFileAndChunk(t, s, "a.go", "func Foo() {}")

	srv, calls := fakeOllama(t, 4)
	c := New(srv.URL, "test-model")

	_, err := Backfill(context.Background(), s, c)
	require.NoError(t, err)
	firstCalls := atomic.LoadInt32(calls)
	require.Greater(t, firstCalls, int32(0))

	res, err := Backfill(context.Background(), s, c)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Embedded)
	assert.Equal(t, firstCalls, atomic.LoadInt32(calls))
}

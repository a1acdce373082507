package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustInsertFile(t *testing.T, s *store.Store, path, language string) int64 {
	t.Helper()
	f := &types.File{Path: path, Language: language, SizeBytes: 100}
	require.NoError(t, s.UpsertFile(context.Background(), f))
	return f.ID
}

func mustInsertChunk(t *testing.T, s *store.Store, fileID int64, kind types.ChunkKind, name, content string, startLine, endLine int) *types.Chunk {
	t.Helper()
	c := &types.Chunk{
		FileID: fileID, Kind: kind, Name: name, Signature: name,
		Content: content, StartLine: startLine, EndLine: endLine,
		StartByte: 0, EndByte: len(content),
	}
	c.ComputeContentHash()
	require.NoError(t, s.UpsertChunk(context.Background(), c))
	return c
}

func TestSanitizeFTSQuery_QuotesPunctuationTokens(t *testing.T) {
	assert.Equal(t, `"foo.bar"`, sanitizeFTSQuery("foo.bar"))
	assert.Equal(t, `"a/b:c"`, sanitizeFTSQuery("a/b:c"))
	assert.Equal(t, "plain", sanitizeFTSQuery("plain"))
}

func TestOrFallbackQuery_JoinsTermsWithOR(t *testing.T) {
	assert.Equal(t, "foo OR bar", orFallbackQuery("foo bar"))
}

func TestKeyword_ReturnsStructurallyBoostedResults(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "pkg/handler.go", "go")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "HandleRequest",
		"func HandleRequest() { dispatch() }", 1, 3)
	mustInsertChunk(t, s, fileID, types.ChunkRaw, "",
		"dispatch dispatch dispatch notes about dispatch", 10, 10)

	searcher := New(s, nil)
	results, err := searcher.Keyword(context.Background(), Request{Query: "dispatch", MaxResults: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "HandleRequest", results[0].Name)
}

func TestKeyword_EmptyQueryMatchesNothingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "pkg/handler.go", "go")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "HandleRequest", "func HandleRequest() {}", 1, 1)

	searcher := New(s, nil)
	results, err := searcher.Keyword(context.Background(), Request{Query: "nonexistentterm", MaxResults: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKeyword_FocusBoostOutranksPlainMatch(t *testing.T) {
	s := newTestStore(t)
	fileA := mustInsertFile(t, s, "a/widget.go", "go")
	fileB := mustInsertFile(t, s, "b/widget.go", "go")
	mustInsertChunk(t, s, fileA, types.ChunkFunction, "Widget", "func Widget() { render() }", 1, 1)
	mustInsertChunk(t, s, fileB, types.ChunkFunction, "Widget", "func Widget() { render() }", 1, 1)

	require.NoError(t, s.UpsertWorksetEntry(context.Background(), &types.WorksetEntry{
		Path: "a/", Kind: types.WorksetFocus, CreatedAt: time.Now(),
	}))

	searcher := New(s, nil)
	results, err := searcher.Keyword(context.Background(), Request{Query: "render", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a/widget.go", results[0].FilePath)
}

func TestGrep_InvalidPatternReturnsError(t *testing.T) {
	s := newTestStore(t)
	searcher := New(s, nil)
	_, err := searcher.Grep(context.Background(), "(unclosed", Filters{}, 0)
	assert.Error(t, err)
}

func TestGrep_ReturnsMatchWithContext(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "pkg/math.go", "go")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "Add",
		"func Add(a, b int) int {\n\tsum := a + b\n\treturn sum\n}", 10, 13)

	searcher := New(s, nil)
	results, err := searcher.Grep(context.Background(), `sum :=`, Filters{}, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 10, results[0].StartLine)
	assert.Equal(t, 13, results[0].EndLine)
	assert.Contains(t, results[0].Content, "sum := a + b")
}

func TestReferences_ClassifiesDefinitionCallAndType(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "src/lib.rs", "rust")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "dispatch", "fn dispatch() {}", 1, 1)
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "caller", "fn caller() { dispatch(); }", 3, 3)
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "typed", "fn typed(x: dispatch) {}", 5, 5)

	searcher := New(s, nil)
	results, err := searcher.References(context.Background(), "dispatch", Filters{}, "")
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := map[string]*types.SearchResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	assert.Equal(t, string(CategoryDefinition), byName["dispatch"].ReferenceCategory)
	assert.Equal(t, string(CategoryCall), byName["caller"].ReferenceCategory)
	assert.Equal(t, string(CategoryType), byName["typed"].ReferenceCategory)
}

func TestReferences_ScopeFilterRestrictsCategory(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "src/lib.rs", "rust")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "dispatch", "fn dispatch() {}", 1, 1)
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "caller", "fn caller() { dispatch(); }", 3, 3)

	searcher := New(s, nil)
	results, err := searcher.References(context.Background(), "dispatch", Filters{}, CategoryCall)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "caller", results[0].Name)
}

func TestMinMaxNormalize_FlatScoresNormalizeToOne(t *testing.T) {
	scores := map[int64]float64{1: 5, 2: 5}
	minMaxNormalize(scores)
	assert.Equal(t, 1.0, scores[1])
	assert.Equal(t, 1.0, scores[2])
}

func TestMinMaxNormalize_RescalesToUnitRange(t *testing.T) {
	scores := map[int64]float64{1: 0, 2: 5, 3: 10}
	minMaxNormalize(scores)
	assert.Equal(t, 0.0, scores[1])
	assert.Equal(t, 0.5, scores[2])
	assert.Equal(t, 1.0, scores[3])
}

func TestCosineSimilarity_IdenticalVectorsScoreOne(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_OrthogonalVectorsScoreZero(t *testing.T) {
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestSemantic_WithoutEmbedderReturnsError(t *testing.T) {
	s := newTestStore(t)
	searcher := New(s, nil)
	_, err := searcher.Semantic(context.Background(), Request{Query: "anything"})
	assert.Error(t, err)
}

func TestExplainEmptyResult_NoIndex(t *testing.T) {
	msg, err := ExplainEmptyResult(context.Background(), nil, false, "/repo", "")
	require.NoError(t, err)
	assert.Equal(t, "No index found. Run: booger index /repo", msg)
}

func TestExplainEmptyResult_NoIndexedFiles(t *testing.T) {
	s := newTestStore(t)
	msg, err := ExplainEmptyResult(context.Background(), s, true, "/repo", "")
	require.NoError(t, err)
	assert.Equal(t, "No indexed files. Run: booger index /repo", msg)
}

func TestExplainEmptyResult_PathPrefixHasNoIndexedFiles(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "a/widget.go", "go")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "Widget", "func Widget() {}", 1, 1)

	msg, err := ExplainEmptyResult(context.Background(), s, true, "/repo", "other/")
	require.NoError(t, err)
	assert.Equal(t, "Path prefix has no indexed files. Run: booger index /repo", msg)
}

func TestExplainEmptyResult_NoMatches(t *testing.T) {
	s := newTestStore(t)
	fileID := mustInsertFile(t, s, "a/widget.go", "go")
	mustInsertChunk(t, s, fileID, types.ChunkFunction, "Widget", "func Widget() {}", 1, 1)

	msg, err := ExplainEmptyResult(context.Background(), s, true, "/repo", "")
	require.NoError(t, err)
	assert.Equal(t, "No matches.", msg)
}

func TestWorkspace_MergesAcrossProjectsAndTags(t *testing.T) {
	sA := newTestStore(t)
	sB := newTestStore(t)
	fa := mustInsertFile(t, sA, "a/widget.go", "go")
	fb := mustInsertFile(t, sB, "b/widget.go", "go")
	mustInsertChunk(t, sA, fa, types.ChunkFunction, "Widget", "func Widget() { render() }", 1, 1)
	mustInsertChunk(t, sB, fb, types.ChunkFunction, "Widget", "func Widget() { render() }", 1, 1)

	results, errs, err := Workspace(context.Background(), []WorkspaceProject{
		{ID: "proj-a", Store: sA},
		{ID: "proj-b", Store: sB},
	}, nil, Request{Query: "render", MaxResults: 10})
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, results, 2)
	projects := map[string]bool{results[0].Project: true, results[1].Project: true}
	assert.True(t, projects["proj-a"] && projects["proj-b"])
}

func TestWorkspace_OneProjectFailureDoesNotAbortOthers(t *testing.T) {
	sA := newTestStore(t)
	fa := mustInsertFile(t, sA, "a/widget.go", "go")
	mustInsertChunk(t, sA, fa, types.ChunkFunction, "Widget", "func Widget() { render() }", 1, 1)

	dir := t.TempDir()
	sBroken, err := store.Open(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	require.NoError(t, sBroken.Close()) // closed DB: queries fail instead of panicking

	results, errs, err := Workspace(context.Background(), []WorkspaceProject{
		{ID: "proj-a", Store: sA},
		{ID: "proj-broken", Store: sBroken},
	}, nil, Request{Query: "render", MaxResults: 10})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "proj-broken", errs[0].Project)
	require.Len(t, results, 1)
	assert.Equal(t, "proj-a", results[0].Project)
}

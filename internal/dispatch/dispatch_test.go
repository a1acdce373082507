package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/registry"
)

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.go"), []byte("package widget\n\nfunc Widget() {}\n"), 0o644))
	return dir
}

func TestResolveRoot_EmptyProjectUsesDefault(t *testing.T) {
	root, err := ResolveRoot("", "/default/root")
	require.NoError(t, err)
	assert.Equal(t, "/default/root", root)
}

func TestResolveRoot_EmptyProjectNoDefaultErrors(t *testing.T) {
	_, err := ResolveRoot("", "")
	assert.Error(t, err)
}

func TestResolveRoot_LiteralPathMustExist(t *testing.T) {
	_, err := ResolveRoot("/no/such/directory/booger-test", "")
	assert.Error(t, err)
}

func TestResolveRoot_LiteralPathResolves(t *testing.T) {
	dir := t.TempDir()
	root, err := ResolveRoot(dir, "")
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestCall_UnknownToolErrors(t *testing.T) {
	d := New("")
	_, err := d.Call(context.Background(), "not-a-real-tool", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestCallIndex_ThenStatusReportsIndexedFiles(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	res, err := d.Call(context.Background(), "index", map[string]any{"project": root})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = d.Call(context.Background(), "status", map[string]any{"project": root})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "1 files")
}

func TestCallStatus_NoIndexExplainsRemediation(t *testing.T) {
	root := t.TempDir()
	d := New(root)
	res, err := d.Call(context.Background(), "status", map[string]any{"project": root})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Run: booger index")
}

func TestCallKeyword_AutoIndexesThenFindsResult(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	res, err := d.Call(context.Background(), "search", map[string]any{"project": root, "query": "Widget"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, res.Text, "widget.go")
}

func TestCallKeyword_MissingQueryIsErrorResult(t *testing.T) {
	root := newTestProject(t)
	d := New(root)
	res, err := d.Call(context.Background(), "search", map[string]any{"project": root})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCallSemantic_NoIndexDoesNotAutoIndex(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	res, err := d.Call(context.Background(), "semantic", map[string]any{"project": root, "query": "widget"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "No index found")

	_, err = os.Stat(filepath.Join(root, ".booger", "index.db"))
	assert.True(t, os.IsNotExist(err), "semantic search on a missing index must not create storage")
}

func TestCallSymbols_ListsIndexedSymbols(t *testing.T) {
	root := newTestProject(t)
	d := New(root)
	_, err := d.Call(context.Background(), "index", map[string]any{"project": root})
	require.NoError(t, err)

	res, err := d.Call(context.Background(), "symbols", map[string]any{"project": root})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Widget")
}

func TestCallReferences_NoMatchUsesSingleQuotedSymbol(t *testing.T) {
	root := newTestProject(t)
	d := New(root)
	_, err := d.Call(context.Background(), "index", map[string]any{"project": root})
	require.NoError(t, err)

	res, err := d.Call(context.Background(), "references", map[string]any{"project": root, "symbol": "NoSuchSymbol"})
	require.NoError(t, err)
	assert.Equal(t, "No matches for symbol 'NoSuchSymbol'.", res.Text)
}

func TestCallAnnotateThenAnnotations_RoundTrips(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	res, err := d.Call(context.Background(), "annotate", map[string]any{
		"project": root, "target": "widget.go", "note": "handles rendering",
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = d.Call(context.Background(), "annotations", map[string]any{"project": root})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "handles rendering")
}

func TestCallForget_RemovesSessionAnnotations(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	_, err := d.Call(context.Background(), "annotate", map[string]any{
		"project": root, "target": "widget.go", "note": "temp", "session": "s1",
	})
	require.NoError(t, err)

	res, err := d.Call(context.Background(), "forget", map[string]any{"project": root, "session": "s1"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Forgot 1 annotation")
}

func TestCallBatch_RunsEntriesSequentially(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	res, err := d.Call(context.Background(), "batch", map[string]any{
		"calls": []any{
			map[string]any{"name": "index", "arguments": map[string]any{"project": root}},
			map[string]any{"name": "status", "arguments": map[string]any{"project": root}},
		},
	})
	require.NoError(t, err)
	items, ok := res.Data.([]BatchItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "index", items[0].Name)
	assert.Equal(t, "status", items[1].Name)
}

func TestCallBatch_RejectsNestedBatch(t *testing.T) {
	d := New(t.TempDir())
	res, err := d.Call(context.Background(), "batch", map[string]any{
		"calls": []any{map[string]any{"name": "batch", "arguments": map[string]any{}}},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCallBatch_RejectsOversizedBatchBeforeRunningAny(t *testing.T) {
	root := newTestProject(t)
	d := New(root)

	calls := make([]any, maxBatchSize+1)
	for i := range calls {
		calls[i] = map[string]any{"name": "status", "arguments": map[string]any{"project": root}}
	}
	res, err := d.Call(context.Background(), "batch", map[string]any{"calls": calls})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = os.Stat(filepath.Join(root, ".booger"))
	assert.True(t, os.IsNotExist(err), "oversized batch must fail before any entry runs")
}

func TestCallWorkspace_MergesResultsAcrossRegisteredProjects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	rootA := newTestProject(t)
	rootB := newTestProject(t)
	d := New("")
	_, err := d.Call(context.Background(), "index", map[string]any{"project": rootA})
	require.NoError(t, err)
	_, err = d.Call(context.Background(), "index", map[string]any{"project": rootB})
	require.NoError(t, err)

	require.NoError(t, registry.Add("proj-a", rootA))
	require.NoError(t, registry.Add("proj-b", rootB))

	res, err := d.Call(context.Background(), "workspace", map[string]any{"query": "Widget"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, res.Text, "widget.go")
}

func TestCallWorkspace_NoRegisteredProjectsIsErrorResult(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	d := New("")
	res, err := d.Call(context.Background(), "workspace", map[string]any{"query": "anything"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCallWorkspace_MissingQueryIsErrorResult(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, registry.Add("proj", newTestProject(t)))
	d := New("")
	res, err := d.Call(context.Background(), "workspace", map[string]any{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestResources_IncludesDefaultRoot(t *testing.T) {
	root := newTestProject(t)
	d := New(root)
	resources, err := d.Resources()
	require.NoError(t, err)
	require.NotEmpty(t, resources)
	assert.Equal(t, "booger://status/"+root, resources[0].URI)
}

func TestReadResource_UnknownURIErrors(t *testing.T) {
	d := New(t.TempDir())
	_, err := d.ReadResource(context.Background(), "booger://status/not-a-real-root")
	assert.Error(t, err)
}

package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns whatever it
// wrote to stdout. Flags are package-level vars (cobra's own idiom),
// so tests run sequentially and each resets the flags it cares about.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	flagProject, flagJSON, flagLevel = "", false, "warn"
	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.go"), []byte("package widget\n\nfunc Widget() {}\n"), 0o644))
	return dir
}

func TestIndexThenStatus_ReportsIndexedFiles(t *testing.T) {
	dir := newTestProject(t)

	out, err := runCLI(t, "index", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed")

	out, err = runCLI(t, "status", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 files")
}

func TestSearch_AutoIndexesAndFindsResult(t *testing.T) {
	dir := newTestProject(t)

	out, err := runCLI(t, "search", "--project", dir, "Widget")
	require.NoError(t, err)
	assert.Contains(t, out, "widget.go")
}

func TestSearch_MissingQueryArgIsUsageError(t *testing.T) {
	_, err := runCLI(t, "search", "--project", t.TempDir())
	assert.Error(t, err)
}

func TestProjectAddThenList_RoundTrips(t *testing.T) {
	dir := newTestProject(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := runCLI(t, "project", "add", "widget-proj", dir)
	require.NoError(t, err)

	out, err := runCLI(t, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "widget-proj")
}

func TestInit_WritesConfigFile(t *testing.T) {
	dir := newTestProject(t)

	_, err := runCLI(t, "init", dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, ".booger", "config.yaml"))
	assert.NoError(t, statErr)
}

func TestBranchDiff_NoRepoIsToolError(t *testing.T) {
	dir := newTestProject(t)
	_, err := runCLI(t, "branch-diff", "--project", dir)
	assert.Error(t, err)
}

package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestWalk_SkipsIgnoredAndBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "vendor/dep/dep.go", "package dep\n")
	writeFile(t, root, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFile(t, root, "image.png", "\x89PNG\x00binarydata")
	writeFile(t, root, ".gitignore", "secret.txt\n")
	writeFile(t, root, "secret.txt", "do not index\n")

	files, err := Walk(root, Options{})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	sort.Strings(rels)

	assert.Equal(t, []string{"main.go"}, rels)
}

func TestWalk_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.go", "package main\n")
	writeFile(t, root, "big.go", "package main\n")

	files, err := Walk(root, Options{MaxBytes: 5})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "go", DetectLanguage("main.go"))
	assert.Equal(t, "rust", DetectLanguage("lib.rs"))
	assert.Equal(t, "", DetectLanguage("README"))
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "does-not-exist"), Options{})
	assert.Error(t, err)
}

// fakeReader proves looksBinary consults the injected FileReader rather
// than reading the file itself: every path returns content with a NUL
// byte regardless of what's actually on disk.
type fakeReader struct{}

func (fakeReader) ReadFile(string) ([]byte, error) {
	return []byte("not\x00text"), nil
}

func TestWalk_UsesInjectedFileReaderForBinarySniffing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "looks_fine.go", "package main\n")

	files, err := Walk(root, Options{FileReader: fakeReader{}})
	require.NoError(t, err)
	assert.Empty(t, files, "fakeReader's NUL byte should have flagged the file as binary")
}

func TestLooksBinary_DetectsNULByteWithinProbeWindow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.txt", "clean\x00data")
	assert.True(t, looksBinary(osReader{}, filepath.Join(root, "data.txt"), 512))
}

func TestLooksBinary_IgnoresNULByteBeyondProbeWindow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.txt", "clean"+string(make([]byte, 512))+"\x00")
	assert.False(t, looksBinary(osReader{}, filepath.Join(root, "data.txt"), 4))
}

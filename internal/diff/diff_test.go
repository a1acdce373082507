package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/internal/chunker/languages"
	"github.com/dshills/booger/pkg/types"
)

func newTestChunker() *chunker.Chunker {
	r := chunker.NewRegistry()
	languages.RegisterAll(r)
	return chunker.New(r)
}

func TestDiffFile_DetectsAddedModifiedAndRemoved(t *testing.T) {
	ck := newTestChunker()
	old := []byte(`package x

func Keep() int { return 1 }

func Gone() int { return 2 }
`)
	next := []byte(`package x

func Keep() int { return 99 }

func New() int { return 3 }
`)

	fd, err := DiffFile(ck, "x.go", old, next)
	require.NoError(t, err)

	var addedNames, modifiedNames, removedNames []string
	for _, s := range fd.Added {
		addedNames = append(addedNames, s.Name)
	}
	for _, s := range fd.Modified {
		modifiedNames = append(modifiedNames, s.Name)
	}
	for _, s := range fd.Removed {
		removedNames = append(removedNames, s.Name)
	}

	assert.Contains(t, addedNames, "New")
	assert.Contains(t, modifiedNames, "Keep")
	assert.Contains(t, removedNames, "Gone")
}

func TestDiffFile_UnchangedSymbolsAreNotReported(t *testing.T) {
	ck := newTestChunker()
	src := []byte(`package x

func Stable() int { return 1 }
`)
	fd, err := DiffFile(ck, "x.go", src, src)
	require.NoError(t, err)
	assert.Empty(t, fd.Added)
	assert.Empty(t, fd.Modified)
	assert.Empty(t, fd.Removed)
}

func TestDiffFile_NewFileHasOnlyAdditions(t *testing.T) {
	ck := newTestChunker()
	next := []byte(`package x

func Fresh() int { return 1 }
`)
	fd, err := DiffFile(ck, "x.go", nil, next)
	require.NoError(t, err)
	require.Len(t, fd.Added, 1)
	assert.Equal(t, "Fresh", fd.Added[0].Name)
	assert.Empty(t, fd.Modified)
	assert.Empty(t, fd.Removed)
}

func TestDiffFile_DeletedFileHasOnlyRemovals(t *testing.T) {
	ck := newTestChunker()
	old := []byte(`package x

func Departing() int { return 1 }
`)
	fd, err := DiffFile(ck, "x.go", old, nil)
	require.NoError(t, err)
	require.Len(t, fd.Removed, 1)
	assert.Equal(t, "Departing", fd.Removed[0].Name)
	assert.Empty(t, fd.Added)
}

func TestDiffFile_DuplicateNamesMatchByOccurrenceIndex(t *testing.T) {
	ck := newTestChunker()
	old := []byte(`package x

type A struct{}

func (a A) Get() int { return 1 }

type B struct{}

func (b B) Get() int { return 2 }
`)
	next := []byte(`package x

type A struct{}

func (a A) Get() int { return 100 }

type B struct{}

func (b B) Get() int { return 2 }
`)

	fd, err := DiffFile(ck, "x.go", old, next)
	require.NoError(t, err)
	require.Len(t, fd.Modified, 1)
	assert.Equal(t, "Get", fd.Modified[0].Name)
	assert.Empty(t, fd.Added)
	assert.Empty(t, fd.Removed)
}

func TestDiffFile_ResultsAreSortedByStartLine(t *testing.T) {
	ck := newTestChunker()
	next := []byte(`package x

func Second() int { return 2 }

func First() int { return 1 }
`)
	fd, err := DiffFile(ck, "x.go", nil, next)
	require.NoError(t, err)
	require.Len(t, fd.Added, 2)
	assert.Less(t, fd.Added[0].StartLine, fd.Added[1].StartLine)
}

func TestDraftCommitMessage_NoFilesReturnsPlaceholder(t *testing.T) {
	bd := &BranchDiff{}
	assert.Equal(t, "No changes to commit", DraftCommitMessage(bd))
}

func TestDraftCommitMessage_AddVerbAndScope(t *testing.T) {
	bd := &BranchDiff{
		BaseRef: "main",
		Files: []ChangedFile{
			{
				Path:   "internal/search/keyword.go",
				Status: FileAdded,
				FileDiff: FileDiff{
					Added: []SymbolChange{{Kind: types.ChunkFunction, Name: "Keyword", StartLine: 1, EndLine: 10}},
				},
			},
		},
		Summary: Summary{FilesAdded: 1, SymbolsAdded: 1},
	}

	msg := DraftCommitMessage(bd)
	assert.Contains(t, msg, "Add Keyword in internal/search/keyword.go")
	assert.Contains(t, msg, "[+] internal/search/keyword.go")
	assert.Contains(t, msg, "+ function Keyword")
}

func TestDraftCommitMessage_PrefersAddedOverModifiedNames(t *testing.T) {
	bd := &BranchDiff{
		Files: []ChangedFile{
			{
				Path:   "a.go",
				Status: FileModified,
				FileDiff: FileDiff{
					Added:    []SymbolChange{{Kind: types.ChunkFunction, Name: "Brand", StartLine: 1}},
					Modified: []SymbolChange{{Kind: types.ChunkFunction, Name: "Old", StartLine: 5}},
				},
			},
		},
		Summary: Summary{SymbolsAdded: 1, SymbolsModified: 1},
	}
	msg := DraftCommitMessage(bd)
	assert.Contains(t, msg, "Brand")
	assert.NotContains(t, msg, "Old in")
}

func TestDraftCommitMessage_ImportSymbolsExcludedFromNotableNames(t *testing.T) {
	bd := &BranchDiff{
		Files: []ChangedFile{
			{
				Path:   "a.go",
				Status: FileModified,
				FileDiff: FileDiff{
					Added: []SymbolChange{{Kind: types.ChunkImport, Name: "fmt", StartLine: 1}},
				},
			},
		},
		Summary: Summary{SymbolsAdded: 1},
	}
	msg := DraftCommitMessage(bd)
	subject, _, _ := strings.Cut(msg, "\n")
	assert.NotContains(t, subject, "fmt")
	assert.Contains(t, subject, "file(s)")
}

func TestTopLevelScope_CommonPrefixAcrossMultipleFiles(t *testing.T) {
	scope := topLevelScope([]ChangedFile{
		{Path: "internal/search/keyword.go"},
		{Path: "internal/search/grep.go"},
	})
	assert.Equal(t, "internal/search", scope)
}

func TestTopLevelScope_NoCommonPrefixReturnsEmpty(t *testing.T) {
	scope := topLevelScope([]ChangedFile{
		{Path: "internal/search/keyword.go"},
		{Path: "cmd/booger/main.go"},
	})
	assert.Equal(t, "", scope)
}

func TestChangelog_NoFilesReturnsPlaceholder(t *testing.T) {
	bd := &BranchDiff{BaseRef: "main"}
	out := Changelog(bd)
	assert.Contains(t, out, "No structural changes vs `main`")
}

func TestChangelog_GroupsSectionsByChangeKind(t *testing.T) {
	bd := &BranchDiff{
		BaseRef: "main",
		Files: []ChangedFile{
			{
				Path:   "a.go",
				Status: FileModified,
				FileDiff: FileDiff{
					Added:    []SymbolChange{{Kind: types.ChunkFunction, Name: "New"}},
					Modified: []SymbolChange{{Kind: types.ChunkFunction, Name: "Changed"}},
					Removed:  []SymbolChange{{Kind: types.ChunkFunction, Name: "Gone"}},
				},
			},
			{
				Path:   "b.go",
				Status: FileModified,
				FileDiff: FileDiff{
					Added: []SymbolChange{{Kind: types.ChunkImport, Name: "fmt"}},
				},
			},
			{Path: "c.go", Status: FileAdded},
			{Path: "d.go", Status: FileDeleted},
		},
		Summary: Summary{SymbolsAdded: 2, SymbolsModified: 1, SymbolsRemoved: 1},
	}

	out := Changelog(bd)
	assert.Contains(t, out, "### Added")
	assert.Contains(t, out, "`New` function in `a.go`")
	assert.Contains(t, out, "### Modified")
	assert.Contains(t, out, "`Changed` function in `a.go`")
	assert.Contains(t, out, "### Removed")
	assert.Contains(t, out, "`Gone` function in `a.go`")
	assert.Contains(t, out, "### Dependency changes")
	assert.Contains(t, out, "`fmt` in `b.go`")
	assert.Contains(t, out, "### New files")
	assert.Contains(t, out, "`c.go`")
	assert.Contains(t, out, "### Deleted files")
	assert.Contains(t, out, "`d.go`")
}

// Package diff implements the structural differ of spec §4.8: a pure
// function comparing two chunkings of the same file, plus the
// consumers that format the result as JSON, a commit message, or a
// markdown changelog. It never shells out to a VCS itself — that's
// internal/vcs's job.
package diff

import (
	"fmt"
	"sort"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

// SymbolChange is one structural unit that differs between two
// revisions of a file.
type SymbolChange struct {
	Kind      types.ChunkKind
	Name      string
	StartLine int
	EndLine   int
}

// FileDiff is the three-way split produced by DiffFile for one file.
type FileDiff struct {
	Added    []SymbolChange
	Modified []SymbolChange
	Removed  []SymbolChange
}

// chunkKey identifies a chunk across revisions without using its line
// range, so a symbol that moved within the file still lines up (a
// renamed symbol does not: it shows as removed plus added):
// (kind, name, nth occurrence of that pair),
// per spec §4.8, handling duplicate names like two `New` methods on
// different receivers in the same file.
type chunkKey struct {
	kind types.ChunkKind
	name string
	occ  int
}

func buildChunkMap(chunks []chunker.Chunk) map[chunkKey]chunker.Chunk {
	counts := make(map[[2]string]int)
	out := make(map[chunkKey]chunker.Chunk, len(chunks))
	for _, c := range chunks {
		if c.Kind == types.ChunkRaw {
			continue
		}
		base := [2]string{string(c.Kind), c.Name}
		idx := counts[base]
		counts[base] = idx + 1
		out[chunkKey{kind: c.Kind, name: c.Name, occ: idx}] = c
	}
	return out
}

// DiffFile is the pure contract of spec §4.8: chunk both revisions of
// the same file (same language) and classify every symbol as added
// (only in new), removed (only in old), or modified (present in both
// with different content).
func DiffFile(ck *chunker.Chunker, path string, oldBytes, newBytes []byte) (*FileDiff, error) {
	var oldChunks, newChunks []chunker.Chunk
	if oldBytes != nil {
		chunks, _, err := ck.ChunkFile(path, oldBytes)
		if err != nil {
			return nil, fmt.Errorf("chunk old revision: %w", err)
		}
		oldChunks = chunks
	}
	if newBytes != nil {
		chunks, _, err := ck.ChunkFile(path, newBytes)
		if err != nil {
			return nil, fmt.Errorf("chunk new revision: %w", err)
		}
		newChunks = chunks
	}
	return diffChunks(oldChunks, newChunks), nil
}

func diffChunks(oldChunks, newChunks []chunker.Chunk) *FileDiff {
	oldMap := buildChunkMap(oldChunks)
	newMap := buildChunkMap(newChunks)

	fd := &FileDiff{}
	for key, nc := range newMap {
		change := SymbolChange{Kind: nc.Kind, Name: nc.Name, StartLine: nc.StartLine, EndLine: nc.EndLine}
		oc, ok := oldMap[key]
		switch {
		case !ok:
			fd.Added = append(fd.Added, change)
		case oc.Content != nc.Content:
			fd.Modified = append(fd.Modified, change)
		}
	}
	for key, oc := range oldMap {
		if _, ok := newMap[key]; !ok {
			fd.Removed = append(fd.Removed, SymbolChange{Kind: oc.Kind, Name: oc.Name, StartLine: oc.StartLine, EndLine: oc.EndLine})
		}
	}
	byLine := func(s []SymbolChange) func(i, j int) bool {
		return func(i, j int) bool { return s[i].StartLine < s[j].StartLine }
	}
	sort.Slice(fd.Added, byLine(fd.Added))
	sort.Slice(fd.Modified, byLine(fd.Modified))
	sort.Slice(fd.Removed, byLine(fd.Removed))
	return fd
}

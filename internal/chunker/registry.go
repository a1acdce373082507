package chunker

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/booger/pkg/types"
)

// LanguageSpec binds a tree-sitter grammar to the node-type vocabulary a
// query against that grammar produces. Query must tag every captured
// node with @chunk and, where a name exists, @name.
type LanguageSpec struct {
	Name       string
	Language   *sitter.Language
	Query      string
	Extensions []string

	// KindForNodeType classifies a captured node's tree-sitter type
	// (e.g. "function_declaration") into a chunk kind. Node types absent
	// from this map are skipped.
	KindForNodeType map[string]types.ChunkKind

	// ContainerHeaderLines is how many lines of a container's own text
	// become its signature-only chunk; children are chunked separately.
	ContainerHeaderLines int
}

func (s *LanguageSpec) kindFor(nodeType string) (types.ChunkKind, bool) {
	k, ok := s.KindForNodeType[nodeType]
	return k, ok
}

// isInsideContainer reports whether node has an ancestor whose type
// maps to the container kind, used to reclassify a bare function node
// as a method when the grammar has no distinct method node type (Rust,
// Python).
func (s *LanguageSpec) isInsideContainer(node *sitter.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if k, ok := s.KindForNodeType[p.Type()]; ok && k == types.ChunkContainer {
			return true
		}
	}
	return false
}

// Registry maps file extensions and language names to grammar specs.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]*LanguageSpec
}

func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]*LanguageSpec)}
}

func (r *Registry) Register(spec *LanguageSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range spec.Extensions {
		r.byExt[ext] = spec
	}
}

// Lookup returns the spec registered for path's extension, or nil if
// the file's language has no grammar (the caller falls back to a raw
// whole-file chunk).
func (r *Registry) Lookup(path string) *LanguageSpec {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[ext]
}

// LanguageName returns the detected language for path, or "" if
// unrecognized.
func (r *Registry) LanguageName(path string) string {
	if spec := r.Lookup(path); spec != nil {
		return spec.Name
	}
	return ""
}


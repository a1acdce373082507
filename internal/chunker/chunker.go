// Package chunker turns source file bytes into typed, language-aware
// structural chunks using tree-sitter grammars, falling back to one raw
// chunk per file when no grammar is registered or a parse fails.
package chunker

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/booger/pkg/types"
)

// Chunk is a chunker-produced unit awaiting store insertion. ParentIndex
// points at another Chunk earlier in the same ChunkFile result (-1 when
// there is no parent); the indexer resolves it to a real row id once the
// parent has been upserted.
type Chunk struct {
	*types.Chunk
	ParentIndex int
}

// Chunker dispatches to the grammar registered for a file's extension.
type Chunker struct {
	registry *Registry
}

func New(r *Registry) *Chunker {
	if r == nil {
		r = NewRegistry()
	}
	return &Chunker{registry: r}
}

// ChunkFile parses content under the grammar registered for path and
// returns its structural chunks in source order, parents before
// children. If no grammar is registered, or parsing fails, it returns a
// single raw chunk covering the whole file.
func (c *Chunker) ChunkFile(path string, content []byte) ([]Chunk, string, error) {
	spec := c.registry.Lookup(path)
	if spec == nil {
		return []Chunk{rawChunk(content)}, "", nil
	}

	chunks, err := chunkWithGrammar(spec, content)
	if err != nil {
		return []Chunk{rawChunk(content)}, spec.Name, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(chunks) == 0 {
		return []Chunk{rawChunk(content)}, spec.Name, nil
	}
	return chunks, spec.Name, nil
}

func rawChunk(content []byte) Chunk {
	lines := strings.Count(string(content), "\n") + 1
	tc := &types.Chunk{
		Kind:      types.ChunkRaw,
		Content:   string(content),
		StartLine: 1,
		EndLine:   lines,
		StartByte: 0,
		EndByte:   len(content),
	}
	tc.ComputeContentHash()
	return Chunk{Chunk: tc, ParentIndex: -1}
}

type capture struct {
	node *sitter.Node
	name string
}

func chunkWithGrammar(spec *LanguageSpec, src []byte) ([]Chunk, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(spec.Query), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile query for %s: %w", spec.Name, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var caps []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var node *sitter.Node
		var name string
		for _, cap := range m.Captures {
			switch q.CaptureNameForId(cap.Index) {
			case "chunk":
				node = cap.Node
			case "name":
				name = cap.Node.Content(src)
			}
		}
		if node != nil {
			caps = append(caps, capture{node: node, name: name})
		}
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i].node.StartByte() < caps[j].node.StartByte() })

	chunks := make([]Chunk, 0, len(caps))
	kept := make([]capture, 0, len(caps))

	for _, cap := range caps {
		kind, ok := spec.kindFor(cap.node.Type())
		if !ok {
			continue
		}
		if kind == types.ChunkFunction && spec.isInsideContainer(cap.node) {
			kind = types.ChunkMethod
		}

		content := cap.node.Content(src)
		if kind == types.ChunkContainer {
			content = firstNLines(content, spec.ContainerHeaderLines)
		}

		tc := &types.Chunk{
			Kind:      kind,
			Name:      cap.name,
			Signature: deriveSignature(cap.node, src, kind),
			Content:   content,
			StartLine: int(cap.node.StartPoint().Row) + 1,
			EndLine:   int(cap.node.EndPoint().Row) + 1,
			StartByte: int(cap.node.StartByte()),
			EndByte:   int(cap.node.EndByte()),
		}
		tc.ComputeContentHash()
		chunks = append(chunks, Chunk{Chunk: tc, ParentIndex: -1})
		kept = append(kept, cap)
	}

	resolveParents(kept, chunks)
	return chunks, nil
}

// resolveParents sets ParentIndex on every non-container chunk to the
// index of its nearest enclosing container chunk, found by byte-range
// containment among the captures actually kept as chunks.
func resolveParents(kept []capture, chunks []Chunk) {
	for i := range chunks {
		if chunks[i].Kind == types.ChunkContainer {
			continue
		}
		best := -1
		for j := range chunks {
			if i == j || chunks[j].Kind != types.ChunkContainer {
				continue
			}
			if !isAncestor(kept[j].node, kept[i].node) {
				continue
			}
			if best == -1 || chunks[j].StartByte > chunks[best].StartByte {
				best = j
			}
		}
		chunks[i].ParentIndex = best
	}
}

func isAncestor(a, b *sitter.Node) bool {
	return a != b && a.StartByte() <= b.StartByte() && b.EndByte() <= a.EndByte()
}

func firstNLines(content string, n int) string {
	if n <= 0 {
		n = 3
	}
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// deriveSignature takes the text from a node's start up to (but not
// including) its body child, strips a trailing opening brace, and
// collapses intra-line whitespace while preserving newlines.
func deriveSignature(node *sitter.Node, src []byte, kind types.ChunkKind) string {
	if kind == types.ChunkImport || kind == types.ChunkRaw {
		return ""
	}
	end := node.EndByte()
	if body := node.ChildByFieldName("body"); body != nil {
		end = body.StartByte()
	} else if kind == types.ChunkType || kind == types.ChunkContainer {
		// Struct/enum/interface/class bodies are often unnamed fields;
		// fall back to the first '{' in the node's own text.
		raw := node.Content(src)
		if idx := strings.IndexByte(raw, '{'); idx >= 0 {
			end = node.StartByte() + uint32(idx)
		}
	}
	raw := string(src[node.StartByte():end])
	raw = strings.TrimRight(strings.TrimSpace(raw), "{")
	raw = strings.TrimSpace(raw)

	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = whitespaceRun.ReplaceAllString(strings.TrimSpace(l), " ")
	}
	return strings.Join(lines, "\n")
}

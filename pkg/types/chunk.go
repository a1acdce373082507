package types

import (
	"crypto/sha256"
	"errors"
)

// ChunkKind represents the structural category of a code chunk, shared
// across every language grammar the chunker supports.
type ChunkKind string

const (
	ChunkFunction  ChunkKind = "function"
	ChunkMethod    ChunkKind = "method"
	ChunkType      ChunkKind = "type"
	ChunkContainer ChunkKind = "container" // impl/class/trait/interface signature-only chunk
	ChunkTypeAlias ChunkKind = "type-alias"
	ChunkImport    ChunkKind = "import"
	ChunkModule    ChunkKind = "module"
	ChunkBlock     ChunkKind = "block"
	ChunkRaw       ChunkKind = "raw"
)

// structuralKinds are the kinds that count as code (vs. raw/module) for
// static re-ranking boosts.
var structuralKinds = map[ChunkKind]bool{
	ChunkFunction:  true,
	ChunkMethod:    true,
	ChunkType:      true,
	ChunkContainer: true,
	ChunkTypeAlias: true,
}

// IsStructural reports whether the chunk kind should receive the search
// engine's structural-match boost.
func (k ChunkKind) IsStructural() bool {
	return structuralKinds[k]
}

// Chunk is a semantically meaningful, language-agnostic section of source
// extracted by the structural chunker for indexing and search.
type Chunk struct {
	ID     int64
	FileID int64

	Kind      ChunkKind
	Name      string // symbol name, empty for raw/block chunks
	Signature string // one-line rendering, falls back to first content line

	Content     string
	ContentHash [32]byte

	StartLine int
	EndLine   int
	StartByte int
	EndByte   int

	// ParentID links a method/field chunk to its enclosing container chunk
	// (impl/class/trait/interface). Zero when the chunk has no parent.
	ParentID int64
}

// ComputeContentHash fills ContentHash from Content.
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content))
}

// Validate performs structural validation shared by every chunk kind.
func (c *Chunk) Validate() error {
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}
	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}
	if c.StartByte > c.EndByte {
		return errors.New("start byte must be before or equal to end byte")
	}
	switch c.Kind {
	case ChunkFunction, ChunkMethod, ChunkType, ChunkContainer, ChunkTypeAlias,
		ChunkImport, ChunkModule, ChunkBlock, ChunkRaw:
	default:
		return errors.New("invalid chunk kind")
	}
	return nil
}

// DisplaySignature returns Signature, falling back to the first line of
// Content when no signature was captured (e.g. raw chunks).
func (c *Chunk) DisplaySignature() string {
	if c.Signature != "" {
		return c.Signature
	}
	for i, r := range c.Content {
		if r == '\n' {
			return c.Content[:i]
		}
	}
	return c.Content
}

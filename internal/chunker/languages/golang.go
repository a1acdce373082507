package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerGo(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "go",
		Language: golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(method_declaration name: (field_identifier) @name) @chunk
			(type_declaration (type_spec name: (type_identifier) @name)) @chunk
			(import_spec) @chunk
		`,
		Extensions: []string{"go"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_declaration": types.ChunkFunction,
			"method_declaration":   types.ChunkMethod,
			"type_declaration":     types.ChunkType,
			"import_spec":          types.ChunkImport,
		},
	})
}

var _ *sitter.Language = golang.GetLanguage()

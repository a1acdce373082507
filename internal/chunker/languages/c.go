package languages

import (
	"github.com/smacker/go-tree-sitter/c"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerC(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "c",
		Language: c.GetLanguage(),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @chunk
			(struct_specifier name: (type_identifier) @name) @chunk
			(enum_specifier name: (type_identifier) @name) @chunk
			(type_definition declarator: (type_identifier) @name) @chunk
			(preproc_include) @chunk
		`,
		Extensions: []string{"c", "h"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_definition": types.ChunkFunction,
			"struct_specifier":    types.ChunkType,
			"enum_specifier":      types.ChunkType,
			"type_definition":     types.ChunkTypeAlias,
			"preproc_include":     types.ChunkImport,
		},
	})
}

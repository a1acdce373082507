package languages

import (
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerRust(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "rust",
		Language: rust.GetLanguage(),
		Query: `
			(function_item name: (identifier) @name) @chunk
			(struct_item name: (type_identifier) @name) @chunk
			(enum_item name: (type_identifier) @name) @chunk
			(type_item name: (type_identifier) @name) @chunk
			(trait_item name: (type_identifier) @name) @chunk
			(impl_item) @chunk
			(use_declaration) @chunk
		`,
		Extensions: []string{"rs"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_item":    types.ChunkFunction, // reclassified to method inside impl/trait
			"struct_item":      types.ChunkType,
			"enum_item":        types.ChunkType,
			"type_item":        types.ChunkTypeAlias,
			"trait_item":       types.ChunkContainer,
			"impl_item":        types.ChunkContainer,
			"use_declaration":  types.ChunkImport,
		},
		ContainerHeaderLines: 3,
	})
}

package languages

import (
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerPython(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "python",
		Language: python.GetLanguage(),
		Query: `
			(function_definition name: (identifier) @name) @chunk
			(class_definition name: (identifier) @name) @chunk
			(import_statement) @chunk
			(import_from_statement) @chunk
		`,
		Extensions: []string{"py", "pyi"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_definition":   types.ChunkFunction, // reclassified to method inside a class
			"class_definition":      types.ChunkContainer,
			"import_statement":      types.ChunkImport,
			"import_from_statement": types.ChunkImport,
		},
		ContainerHeaderLines: 3,
	})
}

package languages

import (
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerJavaScript(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "javascript",
		Language: javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @chunk
			(import_statement) @chunk
		`,
		Extensions: []string{"js", "jsx", "mjs", "cjs"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_declaration": types.ChunkFunction,
			"class_declaration":    types.ChunkContainer,
			"method_definition":    types.ChunkMethod,
			"lexical_declaration":  types.ChunkFunction,
			"import_statement":     types.ChunkImport,
		},
		ContainerHeaderLines: 3,
	})
}

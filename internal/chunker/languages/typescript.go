package languages

import (
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/pkg/types"
)

func registerTypeScript(r *chunker.Registry) {
	r.Register(&chunker.LanguageSpec{
		Name:     "typescript",
		Language: typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (type_identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @chunk
			(interface_declaration name: (type_identifier) @name) @chunk
			(type_alias_declaration name: (type_identifier) @name) @chunk
			(import_statement) @chunk
		`,
		Extensions: []string{"ts", "tsx"},
		KindForNodeType: map[string]types.ChunkKind{
			"function_declaration":   types.ChunkFunction,
			"class_declaration":      types.ChunkContainer,
			"method_definition":      types.ChunkMethod,
			"lexical_declaration":    types.ChunkFunction,
			"interface_declaration":  types.ChunkContainer,
			"type_alias_declaration": types.ChunkTypeAlias,
			"import_statement":       types.ChunkImport,
		},
		ContainerHeaderLines: 3,
	})
}

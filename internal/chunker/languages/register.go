// Package languages holds one file per tree-sitter grammar, each
// registering its LanguageSpec against a chunker.Registry.
package languages

import "github.com/dshills/booger/internal/chunker"

// RegisterAll adds every grammar this build supports to r. Callers that
// need a narrower set can call the individual register functions
// directly instead.
func RegisterAll(r *chunker.Registry) {
	registerGo(r)
	registerRust(r)
	registerPython(r)
	registerJavaScript(r)
	registerTypeScript(r)
	registerC(r)
}

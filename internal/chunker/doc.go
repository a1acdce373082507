// Package chunker turns source files into typed structural chunks
// (functions, methods, types, containers, imports) using tree-sitter
// grammars registered per language.
//
// # Basic usage
//
//	r := chunker.NewRegistry()
//	languages.RegisterAll(r)
//	c := chunker.New(r)
//	chunks, lang, err := c.ChunkFile("service.rs", content)
//
// Files with no registered grammar, and files whose grammar fails to
// parse, fall back to a single raw chunk covering the whole file so the
// indexer never drops a file from the store.
//
// # Containers
//
// Container nodes (class/impl/trait bodies) are emitted as a
// signature-only chunk holding their first few lines; their methods are
// chunked independently and linked back via Chunk.ParentIndex, which the
// indexer resolves to a real row id once the container has been
// upserted.
package chunker

// Package types provides the shared domain model for booger: the record
// types persisted by the chunk store and passed between the chunker,
// indexer, search engine, working-memory layer, and structural differ.
//
// # Core types
//
// File is a single indexed source file; Chunk is a language-agnostic
// structural section of it produced by the chunker:
//
//	chunk := &types.Chunk{
//	    Kind:    types.ChunkFunction,
//	    Name:    "ParseFile",
//	    Content: functionBody,
//	}
//
// Symbol is Go-specific enrichment (DDD pattern flags, doc comments),
// not a primary record type; no chunker grammar produces one.
//
// # Working memory
//
// Annotation and WorksetEntry back the annotate/focus/visit/forget
// operations; both are scoped by an optional session ID, and
// annotations are excluded from reads once expired.
//
// # Search
//
// SearchResult combines a chunk with its file path and an adjusted
// score after static and volatile re-ranking.
package types

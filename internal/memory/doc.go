// Package memory implements the volatile working-memory operations of
// spec §4.7: annotate/annotations, focus/visit/unfocus, and forget.
// Annotations and workset entries live in the same database as the
// chunk store (internal/store's annotations/workset tables) so a
// forget is atomic with the rest of the project's state, and expired
// annotations are swept before every read rather than filtered lazily.
package memory

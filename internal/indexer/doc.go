// Package indexer reconciles a project directory with the chunk store.
//
// # Basic usage
//
//	idx := indexer.New(store, chunker.New(registry))
//	stats, err := idx.IndexProject(ctx, "/path/to/project", indexer.Config{})
//	fmt.Printf("indexed %d, unchanged %d, removed %d\n",
//	    stats.Indexed, stats.Unchanged, stats.Removed)
//
// # Incremental reconciliation
//
// Each run walks the tree, content-hashes every file, and:
//
//   - inserts files the store has never seen,
//   - re-chunks files whose hash changed, deleting their old chunks first,
//   - leaves files whose hash matches untouched,
//   - deletes the record (and cascading chunks/embeddings) for any
//     previously indexed path absent from the current walk.
//
// A second run over an unchanged tree touches no rows beyond the
// read-only hash comparisons, which is what makes it safe to call on
// every search-class tool invocation (auto-index).
//
// # Concurrency
//
// Files are processed in batches of Config.BatchSize, each batch in its
// own transaction, fanned out across Config.Workers goroutines via
// errgroup with a semaphore. Concurrent IndexProject calls for the same
// root are rejected with ErrIndexInProgress rather than interleaved.
package indexer

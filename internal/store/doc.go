// Package store implements the chunk store: the single SQLite database
// per project at <project>/.booger/index.db holding files, chunks, the
// FTS5 text index, embeddings, annotations, and the working set.
//
// Two SQLite drivers are available, selected at build time exactly like
// the project this package started from: github.com/mattn/go-sqlite3
// under CGO (tag sqlite_vec) and modernc.org/sqlite otherwise — see
// build_cgo.go / build_purego.go.
//
// All write operations funnel through a querier interface implemented by
// both *sql.DB and *sql.Tx so the same method body serves standalone
// calls and calls made inside Indexer's per-batch transactions.
package store

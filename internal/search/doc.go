// Package search answers every query shape booger's tools and CLI
// expose over a single project's chunk store:
//
//   - Keyword: sanitized FTS5 query, OR-fallback on an empty multi-term
//     hit, static re-ranking (structural boost, size penalty), then
//     volatile re-ranking from the working-memory layer (focus/visited/
//     annotations).
//   - Grep: a Go regular expression scanned over stored chunk content,
//     with surrounding context lines.
//   - References: word-boundary symbol matching classified into
//     definition/call/type/import/reference, with enclosing-function
//     resolution.
//   - Semantic: cosine similarity over stored embeddings for the
//     searcher's configured model.
//   - Hybrid: keyword and semantic candidates merged by a min-max
//     normalized weighted sum, degrading to keyword-only when no
//     embedder or no embeddings are available.
//   - Workspace: keyword search fanned out across multiple projects'
//     stores concurrently, merged into one ranking.
//
// Every result's Score is "higher is better" throughout this package,
// even though SQLite's bm25() is ascending-better; keyword search
// negates it on the way in so static/volatile boosts can simply add.
package search

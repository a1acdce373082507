package store

import (
	"context"
	"database/sql"

	"github.com/dshills/booger/pkg/types"
)

// FTSHit is one row of a SearchFTS result: a chunk plus its engine
// relevance score, before any re-ranking.
type FTSHit struct {
	Chunk    *types.Chunk
	FilePath string
	Language string
	Score    float64 // bm25() output, lower is better
}

// SearchFTS issues ftsQuery against chunks_fts, joined back to chunks
// and files, ranked by SQLite's bm25() and capped at limit rows. Callers
// are responsible for sanitizing ftsQuery for FTS5 syntax first.
func (s *Store) SearchFTS(ctx context.Context, ftsQuery string, filter ChunkFilter, limit int) ([]FTSHit, error) {
	query := `
		SELECT ` + chunkColumns + `, files.path, files.language, bm25(chunks_fts) AS score
		FROM chunks_fts
		JOIN chunks ON chunks.id = chunks_fts.rowid
		JOIN files ON files.id = chunks.file_id
		WHERE chunks_fts MATCH ?
	`
	args := []any{ftsQuery}
	if filter.Language != "" {
		query += ` AND files.language = ?`
		args = append(args, filter.Language)
	}
	if filter.PathPrefix != "" {
		query += ` AND files.path LIKE ? || '%'`
		args = append(args, filter.PathPrefix)
	}
	if filter.Kind != "" {
		query += ` AND chunks.kind = ?`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY score LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FTSHit
	for rows.Next() {
		hit, err := scanFTSHit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hit)
	}
	return out, rows.Err()
}

func scanFTSHit(rows *sql.Rows) (FTSHit, error) {
	var c types.Chunk
	var parentID sql.NullInt64
	var name, sig sql.NullString
	var hash []byte
	var path string
	var lang sql.NullString
	var score float64
	if err := rows.Scan(&c.ID, &c.FileID, &parentID, &c.Kind, &name, &sig,
		&c.Content, &hash, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte,
		&path, &lang, &score); err != nil {
		return FTSHit{}, err
	}
	c.ParentID = parentID.Int64
	c.Name = name.String
	c.Signature = sig.String
	copy(c.ContentHash[:], hash)
	return FTSHit{Chunk: &c, FilePath: path, Language: lang.String, Score: score}, nil
}

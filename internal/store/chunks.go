package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dshills/booger/pkg/types"
)

func upsertChunkWithQuerier(ctx context.Context, q querier, c *types.Chunk) error {
	var parentID any
	if c.ParentID != 0 {
		parentID = c.ParentID
	}
	var name, sig any
	if c.Name != "" {
		name = c.Name
	}
	if c.Signature != "" {
		sig = c.Signature
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO chunks (file_id, parent_id, kind, name, signature, content, content_hash,
			start_line, end_line, start_byte, end_byte)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, start_byte, end_byte) DO UPDATE SET
			parent_id    = excluded.parent_id,
			kind         = excluded.kind,
			name         = excluded.name,
			signature    = excluded.signature,
			content      = excluded.content,
			content_hash = excluded.content_hash,
			start_line   = excluded.start_line,
			end_line     = excluded.end_line
		RETURNING id
	`, c.FileID, parentID, string(c.Kind), name, sig, c.Content, c.ContentHash[:],
		c.StartLine, c.EndLine, c.StartByte, c.EndByte)
	return row.Scan(&c.ID)
}

func (s *Store) UpsertChunk(ctx context.Context, c *types.Chunk) error {
	return upsertChunkWithQuerier(ctx, s.querier(), c)
}

func (t *TxStore) UpsertChunk(ctx context.Context, c *types.Chunk) error {
	return upsertChunkWithQuerier(ctx, t.querier(), c)
}

func deleteChunksByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM chunks WHERE file_id = ?`, fileID)
	return err
}

func (s *Store) DeleteChunksByFile(ctx context.Context, fileID int64) error {
	return deleteChunksByFileWithQuerier(ctx, s.querier(), fileID)
}

func (t *TxStore) DeleteChunksByFile(ctx context.Context, fileID int64) error {
	return deleteChunksByFileWithQuerier(ctx, t.querier(), fileID)
}

const chunkColumns = `
	chunks.id, chunks.file_id, chunks.parent_id, chunks.kind, chunks.name, chunks.signature,
	chunks.content, chunks.content_hash, chunks.start_line, chunks.end_line,
	chunks.start_byte, chunks.end_byte
`

func scanChunk(rows *sql.Rows) (*types.Chunk, error) {
	var c types.Chunk
	var parentID sql.NullInt64
	var name, sig sql.NullString
	var hash []byte
	if err := rows.Scan(&c.ID, &c.FileID, &parentID, &c.Kind, &name, &sig,
		&c.Content, &hash, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte); err != nil {
		return nil, err
	}
	c.ParentID = parentID.Int64
	c.Name = name.String
	c.Signature = sig.String
	copy(c.ContentHash[:], hash)
	return &c, nil
}

// ListChunksByFile returns every chunk belonging to fileID, ordered by
// position, used by the structural differ and by re-indexing.
func (s *Store) ListChunksByFile(ctx context.Context, fileID int64) ([]*types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+chunkColumns+` FROM chunks WHERE file_id = ? ORDER BY start_byte`, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*types.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ChunkFilter narrows AllChunks/Search by language, path prefix, and kind.
type ChunkFilter struct {
	Language   string
	PathPrefix string
	Kind       string
}

// AllChunks loads every chunk matching filter, joined with its file's
// path and language, for the reference classifier and regex grep (both
// need full chunk content, not just an FTS rank).
func (s *Store) AllChunks(ctx context.Context, filter ChunkFilter) ([]*types.SearchResult, error) {
	query := `
		SELECT ` + chunkColumns + `, files.path, files.language
		FROM chunks JOIN files ON files.id = chunks.file_id
		WHERE 1=1
	`
	var args []any
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
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*types.SearchResult
	rank := 0
	for rows.Next() {
		var c types.Chunk
		var parentID sql.NullInt64
		var name, sig sql.NullString
		var hash []byte
		var path string
		var lang sql.NullString
		if err := rows.Scan(&c.ID, &c.FileID, &parentID, &c.Kind, &name, &sig,
			&c.Content, &hash, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte,
			&path, &lang); err != nil {
			return nil, err
		}
		c.ParentID = parentID.Int64
		c.Name = name.String
		c.Signature = sig.String
		copy(c.ContentHash[:], hash)
		rank++
		out = append(out, &types.SearchResult{
			ChunkID:   c.ID,
			Rank:      rank,
			FilePath:  path,
			Language:  lang.String,
			Kind:      c.Kind,
			Name:      c.Name,
			Signature: c.DisplaySignature(),
			Content:   c.Content,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		})
	}
	return out, rows.Err()
}

// ChunksByIDs hydrates a set of chunk ids (e.g. the top-K of a semantic
// scan) into full SearchResults, preserving the input order.
func (s *Store) ChunksByIDs(ctx context.Context, ids []int64) ([]*types.SearchResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `
		SELECT ` + chunkColumns + `, files.path, files.language
		FROM chunks JOIN files ON files.id = chunks.file_id
		WHERE chunks.id IN (` + strings.Join(placeholders, ",") + `)
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*types.SearchResult, len(ids))
	for rows.Next() {
		var c types.Chunk
		var parentID sql.NullInt64
		var name, sig sql.NullString
		var hash []byte
		var path string
		var lang sql.NullString
		if err := rows.Scan(&c.ID, &c.FileID, &parentID, &c.Kind, &name, &sig,
			&c.Content, &hash, &c.StartLine, &c.EndLine, &c.StartByte, &c.EndByte,
			&path, &lang); err != nil {
			return nil, err
		}
		c.ParentID = parentID.Int64
		c.Name = name.String
		c.Signature = sig.String
		copy(c.ContentHash[:], hash)
		byID[c.ID] = &types.SearchResult{
			ChunkID:   c.ID,
			FilePath:  path,
			Language:  lang.String,
			Kind:      c.Kind,
			Name:      c.Name,
			Signature: c.DisplaySignature(),
			Content:   c.Content,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*types.SearchResult, 0, len(ids))
	for i, id := range ids {
		if r, ok := byID[id]; ok {
			r.Rank = i + 1
			out = append(out, r)
		}
	}
	return out, nil
}

// PathHasChunks reports whether any chunk exists under pathPrefix (or any
// chunk at all, when pathPrefix is empty), used for empty-result
// explanations.
func (s *Store) PathHasChunks(ctx context.Context, pathPrefix string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chunks JOIN files ON files.id = chunks.file_id WHERE 1=1`
	var args []any
	if pathPrefix != "" {
		query += ` AND files.path LIKE ? || '%'`
		args = append(args, pathPrefix)
	}
	query += `)`
	var exists bool
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

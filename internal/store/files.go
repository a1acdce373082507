package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dshills/booger/pkg/types"
)

func upsertFileWithQuerier(ctx context.Context, q querier, f *types.File) error {
	now := time.Now()
	if f.IndexedAt.IsZero() {
		f.IndexedAt = now
	}
	row := q.QueryRowContext(ctx, `
		INSERT INTO files (path, content_hash, size_bytes, language, mod_time, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			size_bytes   = excluded.size_bytes,
			language     = excluded.language,
			mod_time     = excluded.mod_time,
			indexed_at   = excluded.indexed_at
		RETURNING id
	`, f.Path, f.ContentHash[:], f.SizeBytes, f.Language, f.ModTime, f.IndexedAt)
	return row.Scan(&f.ID)
}

func (s *Store) UpsertFile(ctx context.Context, f *types.File) error {
	return upsertFileWithQuerier(ctx, s.querier(), f)
}

func (t *TxStore) UpsertFile(ctx context.Context, f *types.File) error {
	return upsertFileWithQuerier(ctx, t.querier(), f)
}

func getFileByPathWithQuerier(ctx context.Context, q querier, path string) (*types.File, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, path, content_hash, size_bytes, language, mod_time, indexed_at
		FROM files WHERE path = ?
	`, path)
	return scanFile(row)
}

func (s *Store) GetFileByPath(ctx context.Context, path string) (*types.File, error) {
	return getFileByPathWithQuerier(ctx, s.querier(), path)
}

func (t *TxStore) GetFileByPath(ctx context.Context, path string) (*types.File, error) {
	return getFileByPathWithQuerier(ctx, t.querier(), path)
}

func scanFile(row *sql.Row) (*types.File, error) {
	var f types.File
	var hash []byte
	var language sql.NullString
	var modTime sql.NullTime
	if err := row.Scan(&f.ID, &f.Path, &hash, &f.SizeBytes, &language, &modTime, &f.IndexedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	copy(f.ContentHash[:], hash)
	f.Language = language.String
	f.ModTime = modTime.Time
	return &f, nil
}

// ListFilePaths returns every indexed path, used by the indexer to find
// files that vanished from the current walk.
func (s *Store) ListFilePaths(ctx context.Context) ([]string, error) {
	rows, err := s.querier().QueryContext(ctx, `SELECT path FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func deleteFileWithQuerier(ctx context.Context, q querier, path string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return err
}

func (s *Store) DeleteFile(ctx context.Context, path string) error {
	return deleteFileWithQuerier(ctx, s.querier(), path)
}

func (t *TxStore) DeleteFile(ctx context.Context, path string) error {
	return deleteFileWithQuerier(ctx, t.querier(), path)
}

// IndexStats summarizes the contents of the store for the `status`
// command and the booger://status resource.
type IndexStats struct {
	FileCount      int
	ChunkCount     int
	TotalSizeBytes int64
	DBSizeBytes    int64
	Languages      map[string]int
}

func (s *Store) Stats(ctx context.Context, dbPath string) (*IndexStats, error) {
	stats := &IndexStats{Languages: map[string]int{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(size_bytes),0) FROM files`).
		Scan(&stats.FileCount, &stats.TotalSizeBytes); err != nil {
		return nil, fmt.Errorf("count files: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&stats.ChunkCount); err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(language, ''), COUNT(*) FROM files GROUP BY language
	`)
	if err != nil {
		return nil, fmt.Errorf("group by language: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var count int
		if err := rows.Scan(&lang, &count); err != nil {
			return nil, err
		}
		if lang == "" {
			lang = "unknown"
		}
		stats.Languages[lang] = count
	}
	if fi, err := statDBFile(dbPath); err == nil {
		stats.DBSizeBytes = fi
	}
	return stats, rows.Err()
}

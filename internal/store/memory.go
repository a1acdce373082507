package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dshills/booger/pkg/types"
)

// CreateAnnotation inserts a note attached to target, expiring at
// expiresAt (zero means it never expires).
func (s *Store) CreateAnnotation(ctx context.Context, a *types.Annotation) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	var expires any
	if !a.ExpiresAt.IsZero() {
		expires = a.ExpiresAt
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO annotations (target, note, session_id, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, a.Target, a.Note, a.SessionID, a.CreatedAt, expires)
	return row.Scan(&a.ID)
}

// ClearExpiredAnnotations deletes every annotation whose expires_at has
// passed. Called before every annotation read so a list never surfaces
// a stale note.
func (s *Store) ClearExpiredAnnotations(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM annotations WHERE expires_at IS NOT NULL AND expires_at < ?
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanAnnotation(rows *sql.Rows) (*types.Annotation, error) {
	var a types.Annotation
	var expires sql.NullTime
	if err := rows.Scan(&a.ID, &a.Target, &a.Note, &a.SessionID, &a.CreatedAt, &expires); err != nil {
		return nil, err
	}
	a.ExpiresAt = expires.Time
	return &a, nil
}

// AnnotationsForTarget lists non-expired annotations whose target
// matches exactly, newest first. Callers must run
// ClearExpiredAnnotations first.
func (s *Store) AnnotationsForTarget(ctx context.Context, target string) ([]*types.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target, note, session_id, created_at, expires_at
		FROM annotations WHERE target = ? ORDER BY created_at DESC
	`, target)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*types.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AllAnnotations lists every non-expired annotation, newest first, used
// by the `annotations` command and by search's annotation-match boost.
func (s *Store) AllAnnotations(ctx context.Context) ([]*types.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target, note, session_id, created_at, expires_at
		FROM annotations ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*types.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAnnotation removes a single annotation by id.
func (s *Store) DeleteAnnotation(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE id = ?`, id)
	return err
}

// DeleteAnnotationsForSession removes every annotation scoped to
// sessionID (not unscoped ones), for a session-scoped `forget`.
func (s *Store) DeleteAnnotationsForSession(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAllAnnotations removes every annotation regardless of session,
// for an unscoped `forget`.
func (s *Store) DeleteAllAnnotations(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM annotations`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpsertWorksetEntry marks path as focused or visited for sessionID,
// replacing any existing entry of the same kind.
func (s *Store) UpsertWorksetEntry(ctx context.Context, e *types.WorksetEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workset (path, kind, session_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path, kind, session_id) DO UPDATE SET created_at = excluded.created_at
	`, e.Path, string(e.Kind), e.SessionID, e.CreatedAt)
	return err
}

// WorksetPaths returns the set of paths marked with kind for sessionID,
// used to build the focus-path and visited-path sets for re-ranking.
func (s *Store) WorksetPaths(ctx context.Context, kind types.WorksetKind, sessionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path FROM workset WHERE kind = ? AND session_id = ? ORDER BY created_at DESC
	`, string(kind), sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ClearWorkset removes every entry of kind for sessionID (kind empty
// clears both focus and visited), reporting how many rows were removed.
func (s *Store) ClearWorkset(ctx context.Context, kind types.WorksetKind, sessionID string) (int64, error) {
	var res sql.Result
	var err error
	if kind == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM workset WHERE session_id = ?`, sessionID)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM workset WHERE kind = ? AND session_id = ?`, string(kind), sessionID)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAllWorkset removes every workset entry regardless of session,
// for an unscoped `forget`.
func (s *Store) ClearAllWorkset(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workset`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ForgetWorksetPath removes a single path/kind/session entry.
func (s *Store) ForgetWorksetPath(ctx context.Context, path string, kind types.WorksetKind, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM workset WHERE path = ? AND kind = ? AND session_id = ?
	`, path, string(kind), sessionID)
	return err
}

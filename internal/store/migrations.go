package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Migration is a single versioned schema change.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations lists every schema migration in order. New tables are
// added as new versions rather than folded into
// migrationFilesAndChunksUp, so an
// existing .booger/index.db upgrades in place.
var AllMigrations = []Migration{
	{Version: "1.0.0", Up: migrationFilesAndChunksUp, Down: migrationFilesAndChunksDown},
	{Version: "1.1.0", Up: migrationEmbeddingsUp, Down: migrationEmbeddingsDown},
	{Version: "1.2.0", Up: migrationMemoryUp, Down: migrationMemoryDown},
}

const migrationFilesAndChunksUp = `
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    content_hash BLOB NOT NULL,
    size_bytes INTEGER NOT NULL,
    language TEXT,
    mod_time TIMESTAMP,
    indexed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);

CREATE TABLE IF NOT EXISTS chunks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
    parent_id INTEGER REFERENCES chunks(id) ON DELETE CASCADE,
    kind TEXT NOT NULL,
    name TEXT,
    signature TEXT,
    content TEXT NOT NULL,
    content_hash BLOB NOT NULL,
    start_line INTEGER NOT NULL,
    end_line INTEGER NOT NULL,
    start_byte INTEGER NOT NULL,
    end_byte INTEGER NOT NULL,
    UNIQUE(file_id, start_byte, end_byte)
);
CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file_id);
CREATE INDEX IF NOT EXISTS idx_chunks_parent ON chunks(parent_id);
CREATE INDEX IF NOT EXISTS idx_chunks_kind ON chunks(kind);
CREATE INDEX IF NOT EXISTS idx_chunks_name ON chunks(name) WHERE name IS NOT NULL;

-- External-content FTS5 table: we manage sync via triggers so content
-- isn't duplicated on disk.
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
    name,
    content,
    content='chunks',
    content_rowid='id',
    tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
    INSERT INTO chunks_fts(rowid, name, content) VALUES (new.id, new.name, new.content);
END;
CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, name, content) VALUES('delete', old.id, old.name, old.content);
END;
CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, name, content) VALUES('delete', old.id, old.name, old.content);
    INSERT INTO chunks_fts(rowid, name, content) VALUES (new.id, new.name, new.content);
END;
`

const migrationFilesAndChunksDown = `
DROP TRIGGER IF EXISTS chunks_au;
DROP TRIGGER IF EXISTS chunks_ad;
DROP TRIGGER IF EXISTS chunks_ai;
DROP TABLE IF EXISTS chunks_fts;
DROP TABLE IF EXISTS chunks;
DROP TABLE IF EXISTS files;
DROP TABLE IF EXISTS schema_version;
`

const migrationEmbeddingsUp = `
CREATE TABLE IF NOT EXISTS embeddings (
    chunk_id INTEGER NOT NULL REFERENCES chunks(id) ON DELETE CASCADE,
    model TEXT NOT NULL,
    vector BLOB NOT NULL,
    PRIMARY KEY (chunk_id, model)
);
CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model);
`

const migrationEmbeddingsDown = `
DROP TABLE IF EXISTS embeddings;
`

const migrationMemoryUp = `
CREATE TABLE IF NOT EXISTS annotations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    target TEXT NOT NULL,
    note TEXT NOT NULL,
    session_id TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_annotations_target ON annotations(target);
CREATE INDEX IF NOT EXISTS idx_annotations_session ON annotations(session_id);
CREATE INDEX IF NOT EXISTS idx_annotations_expires ON annotations(expires_at);

CREATE TABLE IF NOT EXISTS workset (
    path TEXT NOT NULL,
    kind TEXT NOT NULL, -- 'focus' or 'visited'
    session_id TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (path, kind, session_id)
);
CREATE INDEX IF NOT EXISTS idx_workset_session ON workset(session_id);
CREATE INDEX IF NOT EXISTS idx_workset_kind ON workset(kind);
`

const migrationMemoryDown = `
DROP TABLE IF EXISTS workset;
DROP TABLE IF EXISTS annotations;
`

// ApplyMigrations runs every migration newer than the schema's current
// recorded version, in order.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	var tableExists string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableExists)

	var current *semver.Version
	switch {
	case err == sql.ErrNoRows:
		current = semver.MustParse("0.0.0")
	case err != nil:
		return fmt.Errorf("check schema_version table: %w", err)
	default:
		var versionStr string
		err = db.QueryRowContext(ctx,
			"SELECT version FROM schema_version ORDER BY applied_at DESC, rowid DESC LIMIT 1").Scan(&versionStr)
		if err == sql.ErrNoRows || versionStr == "" {
			current = semver.MustParse("0.0.0")
		} else if err != nil {
			return fmt.Errorf("read schema_version: %w", err)
		} else {
			current, err = semver.NewVersion(versionStr)
			if err != nil {
				return fmt.Errorf("invalid current schema version %s: %w", versionStr, err)
			}
		}
	}

	for _, m := range AllMigrations {
		v, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", m.Version, err)
		}
		if !current.LessThan(v) {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		current = v
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Store is the chunk store: one SQLite database per project holding
// files, chunks, the FTS5 text index, embeddings, annotations, and the
// working set.
type Store struct {
	db *sql.DB
}

// querier is implemented by both *sql.DB and *sql.Tx so CRUD methods can
// run standalone or inside a caller-managed transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (creating if necessary) the database at dbPath and applies
// any pending migrations.
func Open(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenIfExists opens dbPath only if it already exists on disk, returning
// (nil, nil) otherwise. Search and status operations use this so they
// never implicitly create an empty, useless database.
func OpenIfExists(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return Open(dbPath)
}

func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	// SQLite has one writer; a single connection avoids SQLITE_BUSY
	// thrashing under the store's own serialization guarantee.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) querier() querier {
	return s.db
}

// Tx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (s *Store) Tx(ctx context.Context, fn func(*TxStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txs := &TxStore{tx: tx}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(txs); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// TxStore exposes the same CRUD methods as Store, scoped to one
// transaction, for the indexer's per-batch writes.
type TxStore struct {
	tx *sql.Tx
}

func (t *TxStore) querier() querier {
	return t.tx
}

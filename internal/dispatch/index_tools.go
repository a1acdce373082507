package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/booger/internal/indexer"
	"github.com/dshills/booger/internal/store"
)

// autoIndex reconciles root against the store before a search-class
// tool queries it. Only callKeyword calls it; the other search-class
// tools open the store read-only and never index. A concurrent index for the same root is
// treated as "use what's already there", not an error, since the
// other run will commit a consistent snapshot momentarily.
func (d *Dispatcher) autoIndex(ctx context.Context, root string, s *store.Store) error {
	idx := indexer.New(s, d.chunker)
	if _, err := idx.IndexProject(ctx, root, indexer.Config{}); err != nil {
		if errors.Is(err, indexer.ErrIndexInProgress) {
			return nil
		}
		return fmt.Errorf("auto-index %s: %w", root, err)
	}
	return nil
}

func (d *Dispatcher) callIndex(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, err := openWritable(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	idx := indexer.New(s, d.chunker)
	stats, err := idx.IndexProject(ctx, root, indexer.Config{})
	if err != nil {
		if errors.Is(err, indexer.ErrIndexInProgress) {
			return errorResult("another index run is already in progress for %s", root), nil
		}
		return nil, fmt.Errorf("index %s: %w", root, err)
	}

	text := fmt.Sprintf(
		"Indexed %s: %d scanned, %d indexed, %d unchanged, %d removed, %d failed, %d chunks produced (%s)",
		root, stats.Scanned, stats.Indexed, stats.Unchanged, stats.Removed, stats.Failed, stats.ChunksProduced, stats.Duration)
	return &Result{Text: text, Data: stats}, nil
}

func (d *Dispatcher) callStatus(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: fmt.Sprintf("Project %s is not indexed. Run: booger index %s", root, root)}, nil
	}
	defer s.Close()

	stats, err := s.Stats(ctx, dbPath(root))
	if err != nil {
		return nil, fmt.Errorf("load status: %w", err)
	}
	text := fmt.Sprintf(
		"%s: %d files, %d chunks, %d bytes indexed, %d byte database",
		root, stats.FileCount, stats.ChunkCount, stats.TotalSizeBytes, stats.DBSizeBytes)
	return &Result{Text: text, Data: stats}, nil
}

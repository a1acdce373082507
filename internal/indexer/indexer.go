// Package indexer reconciles a project's on-disk files with the chunk
// store: walk, hash, chunk changed files, and delete files that vanished
// since the last run.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/booger/internal/chunker"
	"github.com/dshills/booger/internal/hashutil"
	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/internal/walker"
	"github.com/dshills/booger/pkg/types"
)

// ErrIndexInProgress is returned by IndexProject when another run for
// the same root is already in flight; auto-index callers should treat
// this as "use what's already indexed" rather than retry.
var ErrIndexInProgress = errors.New("index already in progress for this root")

// Indexer coordinates the walk -> hash -> chunk -> store pipeline for
// one project root.
type Indexer struct {
	chunker *chunker.Chunker
	store   *store.Store
	workers int

	mu    sync.Mutex
	locks map[string]*IndexLock
}

// Config tunes one indexing run. Zero values take the package defaults.
type Config struct {
	Workers   int
	BatchSize int
}

const defaultBatchSize = 20

func (c *Config) withDefaults() Config {
	out := Config{Workers: c.Workers, BatchSize: c.BatchSize}
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	if out.BatchSize <= 0 {
		out.BatchSize = defaultBatchSize
	}
	return out
}

// Stats reports what one IndexProject run did, per spec §4.5 step 4.
type Stats struct {
	Scanned        int
	Indexed        int // new or changed
	Unchanged      int
	Removed        int // previously indexed paths no longer on disk
	Failed         int
	ChunksProduced int
	ParseErrors    int // files that fell back to a raw chunk after a grammar error
	Duration       time.Duration
	Errors         []string
}

func New(s *store.Store, c *chunker.Chunker) *Indexer {
	return &Indexer{chunker: c, store: s, workers: runtime.NumCPU(), locks: make(map[string]*IndexLock)}
}

func (idx *Indexer) lockFor(root string) *IndexLock {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	l, ok := idx.locks[root]
	if !ok {
		l = &IndexLock{}
		idx.locks[root] = l
	}
	return l
}

// IndexProject walks root, reconciles every discovered file against the
// store by content hash, and deletes records for files that vanished.
// It is idempotent: re-running with no changes touches no rows beyond
// the read-only comparisons. Concurrent calls for the same root return
// ErrIndexInProgress rather than racing each other's transactions.
func (idx *Indexer) IndexProject(ctx context.Context, root string, cfg Config) (*Stats, error) {
	lock := idx.lockFor(root)
	if !lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer lock.Release()

	cfg = cfg.withDefaults()
	idx.workers = cfg.Workers
	start := time.Now()

	files, err := walker.Walk(root, walker.Options{})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	stats := &Stats{Scanned: len(files)}
	if err := idx.indexFiles(ctx, files, cfg, stats); err != nil {
		return nil, err
	}
	if err := idx.removeVanished(ctx, files, stats); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (idx *Indexer) removeVanished(ctx context.Context, current []walker.File, stats *Stats) error {
	seen := make(map[string]bool, len(current))
	for _, f := range current {
		seen[f.RelPath] = true
	}
	storedPaths, err := idx.store.ListFilePaths(ctx)
	if err != nil {
		return fmt.Errorf("list stored paths: %w", err)
	}
	for _, p := range storedPaths {
		if !seen[p] {
			if err := idx.store.DeleteFile(ctx, p); err != nil {
				return fmt.Errorf("delete vanished file %s: %w", p, err)
			}
			stats.Removed++
		}
	}
	return nil
}

func (idx *Indexer) indexFiles(ctx context.Context, files []walker.File, cfg Config, stats *Stats) error {
	sem := make(chan struct{}, idx.workers)
	var (
		indexed, unchanged, failed, chunksProduced, parseErrors int32
		mu                                                      sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(files); i += cfg.BatchSize {
		end := i + cfg.BatchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[i:end]
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			return idx.store.Tx(gctx, func(tx *store.TxStore) error {
				for _, f := range batch {
					changed, nChunks, parseErr, err := idx.indexFile(gctx, tx, f)
					if err != nil {
						atomic.AddInt32(&failed, 1)
						mu.Lock()
						stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", f.RelPath, err))
						mu.Unlock()
						continue
					}
					if parseErr {
						atomic.AddInt32(&parseErrors, 1)
					}
					if changed {
						atomic.AddInt32(&indexed, 1)
						atomic.AddInt32(&chunksProduced, int32(nChunks))
					} else {
						atomic.AddInt32(&unchanged, 1)
					}
				}
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	stats.Indexed = int(indexed)
	stats.Unchanged = int(unchanged)
	stats.Failed = int(failed)
	stats.ChunksProduced = int(chunksProduced)
	stats.ParseErrors = int(parseErrors)
	return nil
}

// indexFile reconciles one file against the store. It returns
// changed=false when the stored content hash already matches, in which
// case it does no writes at all.
func (idx *Indexer) indexFile(ctx context.Context, tx *store.TxStore, wf walker.File) (changed bool, nChunks int, parseErr bool, err error) {
	content, err := os.ReadFile(wf.AbsPath)
	if err != nil {
		return false, 0, false, fmt.Errorf("read: %w", err)
	}
	hash := hashutil.Sum(content)

	fi, statErr := os.Stat(wf.AbsPath)
	if statErr != nil {
		return false, 0, false, fmt.Errorf("stat: %w", statErr)
	}

	existing, err := tx.GetFileByPath(ctx, wf.RelPath)
	switch {
	case err == nil && existing.ContentHash == hash:
		return false, 0, false, nil
	case err != nil && err != store.ErrNotFound:
		return false, 0, false, fmt.Errorf("lookup: %w", err)
	}

	file := &types.File{
		Path:        wf.RelPath,
		ContentHash: hash,
		SizeBytes:   fi.Size(),
		Language:    wf.Language,
		ModTime:     fi.ModTime(),
		IndexedAt:   time.Now(),
	}
	if err := tx.UpsertFile(ctx, file); err != nil {
		return false, 0, false, fmt.Errorf("upsert file: %w", err)
	}
	if err := tx.DeleteChunksByFile(ctx, file.ID); err != nil {
		return false, 0, false, fmt.Errorf("delete old chunks: %w", err)
	}

	rawChunks, _, chunkErr := idx.chunker.ChunkFile(wf.RelPath, content)

	ids := make([]int64, len(rawChunks))
	for i, rc := range rawChunks {
		tc := rc.Chunk
		tc.FileID = file.ID
		if rc.ParentIndex >= 0 {
			tc.ParentID = ids[rc.ParentIndex]
		}
		if err := tx.UpsertChunk(ctx, tc); err != nil {
			return false, 0, false, fmt.Errorf("upsert chunk: %w", err)
		}
		ids[i] = tc.ID
	}

	return true, len(rawChunks), chunkErr != nil, nil
}

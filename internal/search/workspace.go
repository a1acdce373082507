package search

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

// maxWorkspaceWorkers caps concurrent per-project fan-out, per spec
// §4.6 ("Workspace search").
const maxWorkspaceWorkers = 10

// WorkspaceProject is one registered project's open chunk store,
// identified for result tagging.
type WorkspaceProject struct {
	ID    string
	Store *store.Store
}

// WorkspaceError reports that one project's search failed without
// aborting the others.
type WorkspaceError struct {
	Project string
	Err     error
}

// Workspace fans a keyword search out to every project in parallel
// (capped at maxWorkspaceWorkers), tags each result with its project
// id, and merges everything into one ranking by adjusted score. A
// failing project is reported in the returned error slice rather than
// aborting the rest, per spec §4.6.
func Workspace(ctx context.Context, projects []WorkspaceProject, embedder Embedder, req Request) ([]*types.SearchResult, []WorkspaceError, error) {
	req.withDefaults()

	sem := make(chan struct{}, maxWorkspaceWorkers)
	var (
		mu     sync.Mutex
		merged []*types.SearchResult
		errs   []WorkspaceError
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range projects {
		p := p
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			searcher := New(p.Store, embedder)
			results, err := searcher.Keyword(gctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, WorkspaceError{Project: p.ID, Err: err})
				return nil
			}
			for _, r := range results {
				r.Project = p.ID
				merged = append(merged, r)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs, err
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if merged[i].FilePath != merged[j].FilePath {
			return merged[i].FilePath < merged[j].FilePath
		}
		return merged[i].StartLine < merged[j].StartLine
	})
	for i, r := range merged {
		r.Rank = i + 1
	}
	return truncate(merged, req.MaxResults), errs, nil
}

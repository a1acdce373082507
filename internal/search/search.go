// Package search answers keyword, regex, reference, semantic, hybrid,
// and workspace queries over a chunk store, re-ranking raw relevance
// with the working-memory layer's focus/visited/annotation signals.
package search

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

// Embedder generates a query embedding for semantic and hybrid search.
// internal/embedclient satisfies this.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Filters narrows a search to a language, path prefix, and/or kind.
type Filters struct {
	Language   string
	PathPrefix string
	Kind       string
}

// ChunkFilter converts to the store layer's filter shape.
func (f Filters) ChunkFilter() store.ChunkFilter {
	return store.ChunkFilter{Language: f.Language, PathPrefix: f.PathPrefix, Kind: f.Kind}
}

// Request parameters common to keyword, semantic, and hybrid search.
type Request struct {
	Query      string
	MaxResults int
	Filters    Filters
	SessionID  string // scopes volatile re-ranking; "" sees unscoped memory too
	Alpha      float64
	UseCache   bool
	CacheTTL   time.Duration
}

func (r *Request) withDefaults() {
	if r.MaxResults <= 0 {
		r.MaxResults = 20
	}
	if r.Alpha == 0 {
		r.Alpha = 0.7
	}
	if r.CacheTTL == 0 {
		r.CacheTTL = 30 * time.Second
	}
}

// sizeThresholdBytes is the chunk-size penalty threshold T from spec
// §4.6 ("order 4 KiB").
const sizeThresholdBytes = 4096

type cacheEntry struct {
	results   []*types.SearchResult
	expiresAt time.Time
}

// Searcher answers queries against one project's chunk store.
type Searcher struct {
	store    *store.Store
	embedder Embedder
	cache    *lru.Cache[string, *cacheEntry]
}

// New builds a Searcher. embedder may be nil, in which case hybrid
// search degrades to keyword-only and semantic search returns an error.
func New(s *store.Store, embedder Embedder) *Searcher {
	cache, err := lru.New[string, *cacheEntry](1000)
	if err != nil {
		panic("search: failed to build LRU cache: " + err.Error())
	}
	return &Searcher{store: s, embedder: embedder, cache: cache}
}

// cacheKey includes SessionID: results are re-ranked against that
// session's focus/visited/annotation state, so a keyword match cached
// under one session must never be served to another.
func cacheKey(op, query string, f Filters, sessionID string, max int) string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%d", op, query, f.Language, f.PathPrefix, f.Kind, sessionID, max)
}

func (s *Searcher) cached(op string, req Request) ([]*types.SearchResult, bool) {
	if !req.UseCache {
		return nil, false
	}
	entry, ok := s.cache.Get(cacheKey(op, req.Query, req.Filters, req.SessionID, req.MaxResults))
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.results, true
}

func (s *Searcher) storeCache(op string, req Request, results []*types.SearchResult) {
	if !req.UseCache {
		return
	}
	s.cache.Add(cacheKey(op, req.Query, req.Filters, req.SessionID, req.MaxResults), &cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(req.CacheTTL),
	})
}

package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/booger/internal/store"
	"github.com/dshills/booger/pkg/types"
)

// fetchMultiplier over-fetches raw FTS hits so re-ranking has room to
// reorder before truncating to MaxResults (spec §4.6 step 2).
const fetchMultiplier = 5

// punctuationToken matches identifier-like tokens containing characters
// FTS5 would otherwise treat as query syntax.
var punctuationToken = regexp.MustCompile(`[\w]*[-./:*^][\w./:*^-]*`)

// sanitizeFTSQuery wraps punctuation-bearing tokens in quotes so FTS5
// treats them as phrase atoms rather than operators (spec §4.6 step 1).
func sanitizeFTSQuery(query string) string {
	return punctuationToken.ReplaceAllStringFunc(query, func(tok string) string {
		return `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
	})
}

// orFallbackQuery joins every whitespace-separated term with OR, used
// when an AND-style query returns nothing (spec §4.6 step 3).
func orFallbackQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = sanitizeFTSQuery(t)
	}
	return strings.Join(terms, " OR ")
}

// Keyword performs a full-text search with static and volatile
// re-ranking, per spec §4.6.
func (s *Searcher) Keyword(ctx context.Context, req Request) ([]*types.SearchResult, error) {
	req.withDefaults()
	if cached, ok := s.cached("keyword", req); ok {
		return cached, nil
	}

	chunkFilter := req.Filters.ChunkFilter()
	fetchLimit := req.MaxResults * fetchMultiplier

	hits, err := s.store.SearchFTS(ctx, sanitizeFTSQuery(req.Query), chunkFilter, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	if len(hits) == 0 && len(strings.Fields(req.Query)) > 1 {
		hits, err = s.store.SearchFTS(ctx, orFallbackQuery(req.Query), chunkFilter, fetchLimit)
		if err != nil {
			return nil, fmt.Errorf("fts or-fallback search: %w", err)
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	results := make([]*types.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = hitToResult(h)
	}

	applyStaticReranking(results)

	vc, err := s.loadVolatileContext(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load volatile context: %w", err)
	}
	applyVolatileReranking(results, vc)

	finalSort(results)
	results = truncate(results, req.MaxResults)

	s.storeCache("keyword", req, results)
	return results, nil
}

func hitToResult(h store.FTSHit) *types.SearchResult {
	c := h.Chunk
	return &types.SearchResult{
		ChunkID:   c.ID,
		FilePath:  h.FilePath,
		Language:  h.Language,
		Kind:      c.Kind,
		Name:      c.Name,
		Signature: c.DisplaySignature(),
		Content:   c.Content,
		StartLine: c.StartLine,
		EndLine:   c.EndLine,
		// bm25() is ascending-better (more negative = more relevant);
		// negate so every score in this package is descending-better.
		Score: -h.Score,
	}
}

// ExplainEmptyResult returns the reason a search-class tool produced
// zero results, per spec §4.9's empty-result explanation rules. root
// is the project path to interpolate into the remediation command.
func ExplainEmptyResult(ctx context.Context, s *store.Store, dbExists bool, root, pathPrefix string) (string, error) {
	if !dbExists {
		return "No index found. Run: booger index " + root, nil
	}
	hasAny, err := s.PathHasChunks(ctx, "")
	if err != nil {
		return "", err
	}
	if !hasAny {
		return "No indexed files. Run: booger index " + root, nil
	}
	if pathPrefix != "" {
		hasPrefixed, err := s.PathHasChunks(ctx, pathPrefix)
		if err != nil {
			return "", err
		}
		if !hasPrefixed {
			return "Path prefix has no indexed files. Run: booger index " + root, nil
		}
	}
	return "No matches.", nil
}

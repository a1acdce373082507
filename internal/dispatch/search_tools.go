package dispatch

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/booger/internal/search"
	"github.com/dshills/booger/pkg/types"
)

func outputArgs(args map[string]any) (mode string, maxLines, headLimit, offset int) {
	mode = stringArg(args, "output_mode")
	if mode == "" {
		mode = "content"
	}
	return mode, intArg(args, "max_lines", 0), intArg(args, "head_limit", 0), intArg(args, "offset", 0)
}

// searchClassResult shapes a non-empty result set, or an empty-result
// explanation when there are none, per spec §4.9.
func searchClassResult(results []*types.SearchResult, explain func() (string, error), args map[string]any) (*Result, error) {
	if len(results) == 0 {
		msg, err := explain()
		if err != nil {
			return nil, err
		}
		return &Result{Text: msg}, nil
	}
	mode, maxLines, headLimit, offset := outputArgs(args)
	return &Result{Text: Shape(results, mode, maxLines, headLimit, offset), Data: results}, nil
}

// callKeyword is the only search-class tool that auto-indexes: it opens
// the store writable when none exists yet (openWritable) and runs
// d.autoIndex before querying, matching original_source/src/search/
// text.rs's search(), which bootstraps an index on first call. The
// grep/references/symbols/semantic tools open the store read-only: with
// no index they return the "booger index <path>" remediation, and with
// one they query it as it stands, without reconciling it first.
func (d *Dispatcher) callKeyword(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query")
	if query == "" {
		return errorResult("query parameter is required"), nil
	}
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}

	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		s, err = openWritable(root)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}
	defer s.Close()
	if err := d.autoIndex(ctx, root, s); err != nil {
		return nil, err
	}

	embedder, err := d.newEmbedder(ctx, root)
	if err != nil {
		return nil, err
	}
	searcher := search.New(s, embedder)

	req := search.Request{
		Query:      query,
		MaxResults: intArg(args, "max_results", 0),
		Filters:    filtersArg(args),
		SessionID:  stringArg(args, "session"),
		UseCache:   true,
	}
	results, err := searcher.Keyword(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return searchClassResult(results, func() (string, error) {
		return search.ExplainEmptyResult(ctx, s, true, root, req.Filters.PathPrefix)
	}, args)
}

func (d *Dispatcher) callSemantic(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query")
	if query == "" {
		return errorResult("query parameter is required"), nil
	}
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}

	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found. Run: booger index " + root}, nil
	}
	defer s.Close()

	embedder, err := d.newEmbedder(ctx, root)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return errorResult("semantic search requires an embedding backend configured in .booger/config.yaml"), nil
	}
	searcher := search.New(s, embedder)

	req := search.Request{
		Query:      query,
		MaxResults: intArg(args, "max_results", 0),
		Filters:    filtersArg(args),
		SessionID:  stringArg(args, "session"),
	}
	useHybrid := stringArg(args, "mode") == "hybrid"
	var results []*types.SearchResult
	if useHybrid {
		req.Alpha = floatArg(args, "alpha", 0)
		results, err = searcher.Hybrid(ctx, req)
	} else {
		results, err = searcher.Semantic(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return searchClassResult(results, func() (string, error) {
		return search.ExplainEmptyResult(ctx, s, true, root, req.Filters.PathPrefix)
	}, args)
}

func floatArg(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

func (d *Dispatcher) callSymbols(ctx context.Context, args map[string]any) (*Result, error) {
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found. Run: booger index " + root}, nil
	}
	defer s.Close()

	filters := filtersArg(args)
	if p := stringArg(args, "path"); p != "" {
		filters.PathPrefix = p
	}
	results, err := s.AllChunks(ctx, filters.ChunkFilter())
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].StartLine < results[j].StartLine
	})
	return searchClassResult(results, func() (string, error) {
		return search.ExplainEmptyResult(ctx, s, true, root, filters.PathPrefix)
	}, args)
}

func (d *Dispatcher) callReferences(ctx context.Context, args map[string]any) (*Result, error) {
	symbol := stringArg(args, "symbol")
	if symbol == "" {
		return errorResult("symbol parameter is required"), nil
	}
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found. Run: booger index " + root}, nil
	}
	defer s.Close()

	embedder, err := d.newEmbedder(ctx, root)
	if err != nil {
		return nil, err
	}
	searcher := search.New(s, embedder)
	scope := search.Category(stringArg(args, "scope"))
	results, err := searcher.References(ctx, symbol, filtersArg(args), scope)
	if err != nil {
		return errorResult("%s", err), nil
	}
	return searchClassResult(results, func() (string, error) {
		return fmt.Sprintf("No matches for symbol '%s'.", symbol), nil
	}, args)
}

func (d *Dispatcher) callGrep(ctx context.Context, args map[string]any) (*Result, error) {
	pattern := stringArg(args, "pattern")
	if pattern == "" {
		return errorResult("pattern parameter is required"), nil
	}
	root, err := ResolveRoot(stringArg(args, "project"), d.defaultRoot)
	if err != nil {
		return errorResult("%s", err), nil
	}
	s, exists, err := openReadOnly(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if !exists {
		return &Result{Text: "No index found. Run: booger index " + root}, nil
	}
	defer s.Close()

	searcher := search.New(s, nil)
	results, err := searcher.Grep(ctx, pattern, filtersArg(args), intArg(args, "max_results", 0))
	if err != nil {
		return errorResult("%s", err), nil
	}
	return searchClassResult(results, func() (string, error) {
		return search.ExplainEmptyResult(ctx, s, true, root, stringArg(args, "path_prefix"))
	}, args)
}

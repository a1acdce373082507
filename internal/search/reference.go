package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/dshills/booger/pkg/types"
)

// Category is a reference classifier verdict, most specific first.
type Category string

const (
	CategoryDefinition Category = "definition"
	CategoryCall       Category = "call"
	CategoryType       Category = "type"
	CategoryImport     Category = "import"
	CategoryReference  Category = "reference"
)

// categoryRank orders categories from most to least specific, per spec
// §4.6 ("definition > call > type > import > reference").
var categoryRank = map[Category]int{
	CategoryDefinition: 0,
	CategoryCall:       1,
	CategoryType:       2,
	CategoryImport:     3,
	CategoryReference:  4,
}

func mostSpecific(a, b Category) Category {
	if categoryRank[a] <= categoryRank[b] {
		return a
	}
	return b
}

// declarationKinds are chunk kinds that can themselves be a symbol's
// definition.
var declarationKinds = map[types.ChunkKind]bool{
	types.ChunkFunction:  true,
	types.ChunkMethod:    true,
	types.ChunkType:      true,
	types.ChunkContainer: true,
	types.ChunkTypeAlias: true,
}

// References classifies every occurrence of symbol across the chunk
// store into definition/call/type/import/reference hits, optionally
// restricted to one category via scope.
func (s *Searcher) References(ctx context.Context, symbol string, filters Filters, scope Category) ([]*types.SearchResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}
	boundary, err := regexp.Compile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("compile symbol matcher: %w", err)
	}
	followedByParen := regexp.MustCompile(regexp.QuoteMeta(symbol) + `\s*\(`)
	typePosition := regexp.MustCompile(`(:|->)\s*` + regexp.QuoteMeta(symbol) + `\b|<[^>]*\b` + regexp.QuoteMeta(symbol) + `\b[^<]*>`)

	chunks, err := s.store.AllChunks(ctx, filters.ChunkFilter())
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	byFile := make(map[string][]*types.SearchResult)
	for _, c := range chunks {
		byFile[c.FilePath] = append(byFile[c.FilePath], c)
	}
	for _, fileChunks := range byFile {
		sort.Slice(fileChunks, func(i, j int) bool { return fileChunks[i].StartLine < fileChunks[j].StartLine })
	}

	var out []*types.SearchResult
	for _, c := range chunks {
		if !boundary.MatchString(c.Content) {
			continue
		}

		category := CategoryReference
		if declarationKinds[c.Kind] && c.Name == symbol {
			category = mostSpecific(category, CategoryDefinition)
		}
		if c.Kind == types.ChunkImport {
			category = mostSpecific(category, CategoryImport)
		}
		if followedByParen.MatchString(c.Content) {
			category = mostSpecific(category, CategoryCall)
		}
		if typePosition.MatchString(c.Content) {
			category = mostSpecific(category, CategoryType)
		}

		if scope != "" && category != scope {
			continue
		}

		hit := *c
		hit.ReferenceCategory = string(category)
		hit.EnclosingFunction = enclosingFunction(byFile[c.FilePath], c)
		out = append(out, &hit)
	}

	for i, r := range out {
		r.Rank = i + 1
	}
	return out, nil
}

// enclosingFunction finds the smallest function/method chunk in the
// same file whose line range contains target's start line, per spec
// §4.6 ("lexically innermost function/method chunk containing the
// line"). Returns "" when nothing qualifies.
func enclosingFunction(fileChunks []*types.SearchResult, target *types.SearchResult) string {
	var best *types.SearchResult
	for _, c := range fileChunks {
		if c.Kind != types.ChunkFunction && c.Kind != types.ChunkMethod {
			continue
		}
		if target.StartLine < c.StartLine || target.StartLine > c.EndLine {
			continue
		}
		if best == nil || (c.EndLine-c.StartLine) < (best.EndLine-best.StartLine) {
			best = c
		}
	}
	if best == nil {
		return ""
	}
	return best.Name
}

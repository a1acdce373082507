package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/booger/pkg/types"
)

// grepContextLines is how many lines of surrounding context accompany
// each regex grep hit (spec §4.6 "matching lines with surrounding
// context").
const grepContextLines = 2

// Grep scans every indexed chunk's content for pattern, a Go regular
// expression, returning one result per matching line with surrounding
// context. An invalid pattern is returned as a typed error rather than
// panicking, per spec §4.6.
func (s *Searcher) Grep(ctx context.Context, pattern string, filters Filters, resultCap int) ([]*types.SearchResult, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}

	chunks, err := s.store.AllChunks(ctx, filters.ChunkFilter())
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	var out []*types.SearchResult
	for _, c := range chunks {
		lines := strings.Split(c.Content, "\n")
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			start := i - grepContextLines
			if start < 0 {
				start = 0
			}
			end := i + grepContextLines
			if end >= len(lines) {
				end = len(lines) - 1
			}
			out = append(out, &types.SearchResult{
				ChunkID:   c.ChunkID,
				FilePath:  c.FilePath,
				Language:  c.Language,
				Kind:      c.Kind,
				Name:      c.Name,
				Signature: c.Signature,
				Content:   strings.Join(lines[start:end+1], "\n"),
				StartLine: c.StartLine + start,
				EndLine:   c.StartLine + end,
			})
			if resultCap > 0 && len(out) >= resultCap {
				finalizeGrepRanks(out)
				return out, nil
			}
		}
	}
	finalizeGrepRanks(out)
	return out, nil
}

func finalizeGrepRanks(results []*types.SearchResult) {
	for i, r := range results {
		r.Rank = i + 1
	}
}

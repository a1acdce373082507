package search

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/booger/pkg/types"
)

// applyStaticReranking implements spec §4.6 step 4: a structural-kind
// boost plus a size penalty for oversized chunks, mutating Score in
// place. Scores are "higher is better" throughout this package.
func applyStaticReranking(results []*types.SearchResult) {
	for _, r := range results {
		if r.Kind.IsStructural() {
			r.Score += 3
		}
		if size := len(r.Content); size > sizeThresholdBytes {
			penalty := math.Floor(float64(size-sizeThresholdBytes) / sizeThresholdBytes)
			if penalty > 4 {
				penalty = 4
			}
			r.Score -= penalty
		}
	}
}

// volatileContext is the working-memory state consulted by re-ranking:
// focus/visited path sets and annotations, scoped to a session (or
// unscoped when sessionID is "").
type volatileContext struct {
	focusPaths   []string
	visitedPaths []string
	annotations  []*types.Annotation
}

func (s *Searcher) loadVolatileContext(ctx context.Context, sessionID string) (*volatileContext, error) {
	if _, err := s.store.ClearExpiredAnnotations(ctx, time.Now()); err != nil {
		return nil, err
	}
	focus, err := s.store.WorksetPaths(ctx, types.WorksetFocus, sessionID)
	if err != nil {
		return nil, err
	}
	visited, err := s.store.WorksetPaths(ctx, types.WorksetVisited, sessionID)
	if err != nil {
		return nil, err
	}
	annotations, err := s.store.AllAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	return &volatileContext{focusPaths: focus, visitedPaths: visited, annotations: annotations}, nil
}

// applyVolatileReranking implements spec §4.6 step 5.
func applyVolatileReranking(results []*types.SearchResult, vc *volatileContext) {
	for _, r := range results {
		for _, fp := range vc.focusPaths {
			if strings.HasPrefix(r.FilePath, fp) {
				r.Score += 5
				break
			}
		}
		for _, vp := range vc.visitedPaths {
			if strings.HasPrefix(r.FilePath, vp) {
				r.Score -= 3
				break
			}
		}
		for _, a := range vc.annotations {
			if annotationMatches(a, r) {
				r.Score += 2
				r.MatchedAnnotations = append(r.MatchedAnnotations, *a)
			}
		}
	}
}

// annotationMatches reports whether an annotation targets r: by exact
// path, by "path:line" overlapping the chunk's line range, or by symbol
// name equal to the chunk's name.
func annotationMatches(a *types.Annotation, r *types.SearchResult) bool {
	if a.Target == r.FilePath {
		return true
	}
	if r.Name != "" && a.Target == r.Name {
		return true
	}
	if path, line, ok := splitPathLine(a.Target); ok {
		if path == r.FilePath && line >= r.StartLine && line <= r.EndLine {
			return true
		}
	}
	return false
}

func splitPathLine(target string) (path string, line int, ok bool) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(target[idx+1:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return target[:idx], n, true
}

// finalSort implements spec §4.6 step 6: descending score, ties broken
// by lower path lexicographically then lower start line.
func finalSort(results []*types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].StartLine < results[j].StartLine
	})
	for i, r := range results {
		r.Rank = i + 1
	}
}

func truncate(results []*types.SearchResult, max int) []*types.SearchResult {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}

package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/booger/pkg/types"
)

// defaultMaxLines bounds the content output mode when a call doesn't
// set max_lines, per spec §4.9 ("truncated at max_lines with an
// overflow indicator").
const defaultMaxLines = 500

// Paginate applies head_limit/offset with deterministic ordering (the
// caller must already have sorted results), per spec §4.9.
func Paginate(results []*types.SearchResult, headLimit, offset int) []*types.SearchResult {
	if offset > 0 {
		if offset >= len(results) {
			return nil
		}
		results = results[offset:]
	}
	if headLimit > 0 && len(results) > headLimit {
		results = results[:headLimit]
	}
	return results
}

// Shape renders results under one of spec §4.9's four output modes.
// count ignores pagination since it reports the total match count, not
// a page of it; the other three modes paginate first.
func Shape(results []*types.SearchResult, mode string, maxLines, headLimit, offset int) string {
	switch mode {
	case "count":
		return strconv.Itoa(len(results))
	case "signatures":
		return shapeSignatures(Paginate(results, headLimit, offset))
	case "files_with_matches":
		return shapeFilesWithMatches(Paginate(results, headLimit, offset))
	default:
		if maxLines <= 0 {
			maxLines = defaultMaxLines
		}
		return shapeContent(Paginate(results, headLimit, offset), maxLines)
	}
}

func shapeContent(results []*types.SearchResult, maxLines int) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s:%d-%d [%s] %s\n", r.FilePath, r.StartLine, r.EndLine, r.Kind, r.Name)
		for _, note := range r.MatchedAnnotations {
			fmt.Fprintf(&b, "[note] %s\n", note.Note)
		}
		lines := strings.Split(r.Content, "\n")
		shown := lines
		if len(shown) > maxLines {
			shown = shown[:maxLines]
		}
		for j, line := range shown {
			fmt.Fprintf(&b, "%d: %s\n", r.StartLine+j, line)
		}
		if len(lines) > maxLines {
			fmt.Fprintf(&b, "... (+%d more lines)\n", len(lines)-maxLines)
		}
	}
	return b.String()
}

func shapeSignatures(results []*types.SearchResult) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("%s:%d: %s", r.FilePath, r.StartLine, signatureOrFirstLine(r))
	}
	return strings.Join(lines, "\n")
}

// signatureOrFirstLine falls back to a result's first content line
// when it has no signature, per spec §4.9 — import and raw chunks
// carry no signature of their own.
func signatureOrFirstLine(r *types.SearchResult) string {
	if r.Signature != "" {
		return r.Signature
	}
	if first, _, ok := strings.Cut(r.Content, "\n"); ok {
		return first
	}
	return r.Content
}

// shapeFilesWithMatches dedups by path: this mode is meant as a
// file-level overview, not a per-line listing.
func shapeFilesWithMatches(results []*types.SearchResult) string {
	seen := make(map[string]bool, len(results))
	var lines []string
	for _, r := range results {
		if seen[r.FilePath] {
			continue
		}
		seen[r.FilePath] = true
		lines = append(lines, fmt.Sprintf("%s:%d:%d [%s] %s", r.FilePath, r.StartLine, r.EndLine, r.Kind, r.Name))
	}
	return strings.Join(lines, "\n")
}

package diff

import (
	"fmt"
	"strings"

	"github.com/dshills/booger/pkg/types"
)

// DraftCommitMessage produces a one-line summary plus per-file detail
// lines from a structural diff, the way a developer skimming `git
// diff --stat` plus symbol names would write it by hand.
func DraftCommitMessage(bd *BranchDiff) string {
	if len(bd.Files) == 0 {
		return "No changes to commit"
	}

	out := commitSummaryLine(bd)
	if details := commitDetails(bd); details != "" {
		out += "\n\n" + details
	}
	return out
}

func commitSummaryLine(bd *BranchDiff) string {
	s := bd.Summary

	var verbs []string
	if s.SymbolsAdded > 0 || s.FilesAdded > 0 {
		verbs = append(verbs, "add")
	}
	if s.SymbolsModified > 0 {
		verbs = append(verbs, "update")
	}
	if s.SymbolsRemoved > 0 || s.FilesDeleted > 0 {
		verbs = append(verbs, "remove")
	}
	if len(verbs) == 0 {
		verbs = append(verbs, "update")
	}
	primaryVerb := capitalize(verbs[0])

	notable := notableSymbols(bd, func(f ChangedFile) []SymbolChange { return f.Added })
	if len(notable) == 0 {
		notable = notableSymbols(bd, func(f ChangedFile) []SymbolChange { return f.Modified })
	}
	if len(notable) > 3 {
		notable = notable[:3]
	}

	scope := topLevelScope(bd.Files)
	if len(notable) > 0 {
		names := strings.Join(notable, ", ")
		if scope != "" {
			return fmt.Sprintf("%s %s in %s", primaryVerb, names, scope)
		}
		return fmt.Sprintf("%s %s", primaryVerb, names)
	}

	if scope != "" {
		return fmt.Sprintf("%s %d file(s) in %s", primaryVerb, len(bd.Files), scope)
	}
	return fmt.Sprintf("%s %d file(s)", primaryVerb, len(bd.Files))
}

func notableSymbols(bd *BranchDiff, pick func(ChangedFile) []SymbolChange) []string {
	var names []string
	for _, f := range bd.Files {
		for _, sym := range pick(f) {
			if sym.Kind != types.ChunkImport && sym.Name != "" {
				names = append(names, sym.Name)
			}
		}
	}
	return names
}

func topLevelScope(files []ChangedFile) string {
	if len(files) == 0 {
		return ""
	}
	if len(files) == 1 {
		return files[0].Path
	}

	parts := make([][]string, len(files))
	for i, f := range files {
		parts[i] = strings.Split(f.Path, "/")
	}

	var common []string
	for i, seg := range parts[0] {
		for _, p := range parts[1:] {
			if i >= len(p) || p[i] != seg {
				return strings.Join(common, "/")
			}
		}
		common = append(common, seg)
	}
	return strings.Join(common, "/")
}

func commitDetails(bd *BranchDiff) string {
	var lines []string
	for _, f := range bd.Files {
		if len(f.Added) == 0 && len(f.Modified) == 0 && len(f.Removed) == 0 {
			continue
		}

		prefix := "~"
		switch f.Status {
		case FileAdded:
			prefix = "+"
		case FileDeleted:
			prefix = "-"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", prefix, f.Path))

		for _, s := range f.Added {
			lines = append(lines, fmt.Sprintf("  + %s %s", s.Kind, s.Name))
		}
		for _, s := range f.Modified {
			lines = append(lines, fmt.Sprintf("  ~ %s %s", s.Kind, s.Name))
		}
		for _, s := range f.Removed {
			lines = append(lines, fmt.Sprintf("  - %s %s", s.Kind, s.Name))
		}
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package diff

import (
	"fmt"
	"strings"

	"github.com/dshills/booger/pkg/types"
)

type taggedSymbol struct {
	file *ChangedFile
	sym  SymbolChange
}

// Changelog renders a structural diff as a markdown section suitable
// for pasting into a CHANGELOG.md, grouping symbol changes by kind
// (added/modified/removed), import changes separately as dependency
// changes, and every whole new or deleted file, whether or not it
// carried parsed symbols.
func Changelog(bd *BranchDiff) string {
	if len(bd.Files) == 0 {
		return fmt.Sprintf("No structural changes vs `%s`.\n", bd.BaseRef)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "## Changes vs `%s`\n\n", bd.BaseRef)
	fmt.Fprintf(&out, "**%d** file(s) changed — **+%d** symbols added, **~%d** modified, **-%d** removed\n\n",
		len(bd.Files), bd.Summary.SymbolsAdded, bd.Summary.SymbolsModified, bd.Summary.SymbolsRemoved)

	added, modified, removed, imports := classifyChangelogSymbols(bd.Files)

	writeSymbolSection(&out, "Added", added)
	writeSymbolSection(&out, "Modified", modified)
	writeSymbolSection(&out, "Removed", removed)

	if len(imports) > 0 {
		out.WriteString("### Dependency changes\n\n")
		for _, ts := range imports {
			fmt.Fprintf(&out, "- `%s` in `%s`\n", ts.sym.Name, ts.file.Path)
		}
		out.WriteString("\n")
	}

	writeFileListSection(&out, "New files", bd.Files, FileAdded)
	writeFileListSection(&out, "Deleted files", bd.Files, FileDeleted)

	return out.String()
}

func classifyChangelogSymbols(files []ChangedFile) (added, modified, removed, imports []taggedSymbol) {
	for i := range files {
		f := &files[i]
		for _, s := range f.Added {
			if s.Kind == types.ChunkImport {
				imports = append(imports, taggedSymbol{f, s})
				continue
			}
			added = append(added, taggedSymbol{f, s})
		}
		for _, s := range f.Modified {
			if s.Kind == types.ChunkImport {
				imports = append(imports, taggedSymbol{f, s})
				continue
			}
			modified = append(modified, taggedSymbol{f, s})
		}
		for _, s := range f.Removed {
			if s.Kind == types.ChunkImport {
				imports = append(imports, taggedSymbol{f, s})
				continue
			}
			removed = append(removed, taggedSymbol{f, s})
		}
	}
	return
}

func writeSymbolSection(out *strings.Builder, title string, symbols []taggedSymbol) {
	if len(symbols) == 0 {
		return
	}
	fmt.Fprintf(out, "### %s\n\n", title)
	for _, ts := range symbols {
		fmt.Fprintf(out, "- `%s` %s in `%s`\n", ts.sym.Name, ts.sym.Kind, ts.file.Path)
	}
	out.WriteString("\n")
}

func writeFileListSection(out *strings.Builder, title string, files []ChangedFile, status FileStatus) {
	var matched []ChangedFile
	for _, f := range files {
		if f.Status == status {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return
	}
	fmt.Fprintf(out, "### %s\n\n", title)
	for _, f := range matched {
		fmt.Fprintf(out, "- `%s`\n", f.Path)
	}
	out.WriteString("\n")
}

package cli

import "github.com/spf13/cobra"

// searchFlags holds the filter/output flags shared by every
// search-class subcommand (search, semantic, symbols, references,
// grep), mirroring internal/dispatch/schema.go's filterProps/outputProps.
type searchFlags struct {
	language   string
	pathPrefix string
	kind       string
	outputMode string
	maxLines   int
	headLimit  int
	offset     int
	maxResults int
	session    string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.language, "language", "", "restrict results to this language")
	cmd.Flags().StringVar(&f.pathPrefix, "path-prefix", "", "restrict results to files under this path prefix")
	cmd.Flags().StringVar(&f.kind, "kind", "", "restrict results to this chunk kind")
	cmd.Flags().StringVar(&f.outputMode, "output", "content", "output mode: content, signatures, files_with_matches, count")
	cmd.Flags().IntVar(&f.maxLines, "max-lines", 0, "maximum content lines per result before truncation")
	cmd.Flags().IntVar(&f.headLimit, "head-limit", 0, "maximum number of results to return")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "number of results to skip before applying head-limit")
	cmd.Flags().IntVar(&f.maxResults, "max-results", 0, "maximum matches to rank before pagination")
	cmd.Flags().StringVar(&f.session, "session", "", "session id scoping working-memory re-ranking")
}

func (f *searchFlags) args() map[string]any {
	return map[string]any{
		"language":    f.language,
		"path_prefix": f.pathPrefix,
		"kind":        f.kind,
		"output_mode": f.outputMode,
		"max_lines":   f.maxLines,
		"head_limit":  f.headLimit,
		"offset":      f.offset,
		"max_results": f.maxResults,
		"session":     f.session,
	}
}

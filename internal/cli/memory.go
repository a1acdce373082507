package cli

import "github.com/spf13/cobra"

var annotateNote string
var annotateSession string
var annotateTTL int

var annotateCmd = &cobra.Command{
	Use:   "annotate <target>",
	Short: "Attach a working-memory note to a file, symbol, or path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("annotate", map[string]any{
			"target": args[0], "note": annotateNote, "session": annotateSession, "ttl_seconds": annotateTTL,
		})
	},
}

var focusSession string
var visitSession string

var focusCmd = &cobra.Command{
	Use:   "focus <path>...",
	Short: "Mark paths as focused for a session, boosting their rank in subsequent searches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("focus", map[string]any{"paths": toAnySlice(args), "session": focusSession})
	},
}

var visitCmd = &cobra.Command{
	Use:   "visit <path>...",
	Short: "Mark paths as visited for a session, lowering their rank in subsequent searches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("visit", map[string]any{"paths": toAnySlice(args), "session": visitSession})
	},
}

var forgetSession string

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove all working-memory annotations and workset entries for a session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("forget", map[string]any{"session": forgetSession})
	},
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func init() {
	annotateCmd.Flags().StringVar(&annotateNote, "note", "", "note text")
	annotateCmd.Flags().StringVar(&annotateSession, "session", "", "session id the note is scoped to")
	annotateCmd.Flags().IntVar(&annotateTTL, "ttl-seconds", 0, "seconds until the note expires; omit for no expiry")
	rootCmd.AddCommand(annotateCmd)

	focusCmd.Flags().StringVar(&focusSession, "session", "", "session id the focus applies to")
	rootCmd.AddCommand(focusCmd)

	visitCmd.Flags().StringVar(&visitSession, "session", "", "session id the visit applies to")
	rootCmd.AddCommand(visitCmd)

	forgetCmd.Flags().StringVar(&forgetSession, "session", "", "session id to forget")
	rootCmd.AddCommand(forgetCmd)
}

package cli

import "github.com/spf13/cobra"

var branchDiffBase string
var draftCommitBase string
var changelogBase string

var branchDiffCmd = &cobra.Command{
	Use:   "branch-diff",
	Short: "Structural diff between the working tree and a base ref, or staged changes if no base is given",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("branch_diff", map[string]any{"base": branchDiffBase})
	},
}

var draftCommitCmd = &cobra.Command{
	Use:   "draft-commit",
	Short: "Draft a commit message from the structural diff of staged (or base-ref) changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("draft_commit", map[string]any{"base": draftCommitBase})
	},
}

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Render a markdown changelog section from the structural diff of staged (or base-ref) changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool("changelog", map[string]any{"base": changelogBase})
	},
}

func init() {
	branchDiffCmd.Flags().StringVar(&branchDiffBase, "base", "", "base ref to diff against; omit to diff staged (or unstaged) changes instead")
	draftCommitCmd.Flags().StringVar(&draftCommitBase, "base", "", "base ref to diff against; omit to diff staged changes")
	changelogCmd.Flags().StringVar(&changelogBase, "base", "", "base ref to diff against; omit to diff staged changes")
	rootCmd.AddCommand(branchDiffCmd)
	rootCmd.AddCommand(draftCommitCmd)
	rootCmd.AddCommand(changelogCmd)
}

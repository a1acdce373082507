package cli

import "github.com/spf13/cobra"

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index (or re-index) a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := flagProject
		if len(args) == 1 {
			target = args[0]
		}
		return runTool("index", map[string]any{"project": target})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Report index statistics for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := flagProject
		if len(args) == 1 {
			target = args[0]
		}
		return runTool("status", map[string]any{"project": target})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(statusCmd)
}

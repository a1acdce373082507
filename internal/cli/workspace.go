package cli

import "github.com/spf13/cobra"

var workspaceFlags searchFlags

var workspaceCmd = &cobra.Command{
	Use:   "workspace <query>",
	Short: "Keyword search across every registered project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := workspaceFlags.args()
		a["query"] = args[0]
		return runTool("workspace", a)
	},
}

func init() {
	workspaceFlags.register(workspaceCmd)
	rootCmd.AddCommand(workspaceCmd)
}

package cli

import "github.com/spf13/cobra"

var searchFlagsSearch searchFlags
var searchFlagsGrep searchFlags

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Keyword search over indexed code, auto-indexing if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := searchFlagsSearch.args()
		a["query"] = args[0]
		return runTool("search", a)
	},
}

var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Regex search over indexed file content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := searchFlagsGrep.args()
		a["pattern"] = args[0]
		return runTool("grep", a)
	},
}

func init() {
	searchFlagsSearch.register(searchCmd)
	searchFlagsGrep.register(grepCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(grepCmd)
}

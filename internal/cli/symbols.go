package cli

import "github.com/spf13/cobra"

var symbolsFlags searchFlags
var symbolsPath string

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List indexed symbols, optionally filtered by path or kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := symbolsFlags.args()
		a["path"] = symbolsPath
		return runTool("symbols", a)
	},
}

var referencesFlags searchFlags
var referencesScope string

var referencesCmd = &cobra.Command{
	Use:   "references <symbol>",
	Short: "Find references, calls, type usages, or definitions of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := referencesFlags.args()
		a["symbol"] = args[0]
		a["scope"] = referencesScope
		return runTool("references", a)
	},
}

func init() {
	symbolsFlags.register(symbolsCmd)
	symbolsCmd.Flags().StringVar(&symbolsPath, "path", "", "restrict to files under this path")
	rootCmd.AddCommand(symbolsCmd)

	referencesFlags.register(referencesCmd)
	referencesCmd.Flags().StringVar(&referencesScope, "scope", "", "restrict to one reference category: definition, call, type, import, reference")
	rootCmd.AddCommand(referencesCmd)
}

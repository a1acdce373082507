package cli

import "github.com/spf13/cobra"

var semanticFlags searchFlags
var semanticMode string
var semanticAlpha float64

var semanticCmd = &cobra.Command{
	Use:     "semantic <query>",
	Aliases: []string{"semantic-search"},
	Short:   "Semantic or hybrid search over an already-indexed project",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := semanticFlags.args()
		a["query"] = args[0]
		a["mode"] = semanticMode
		a["alpha"] = semanticAlpha
		return runTool("semantic", a)
	},
}

func init() {
	semanticFlags.register(semanticCmd)
	semanticCmd.Flags().StringVar(&semanticMode, "mode", "semantic", "'semantic' or 'hybrid' to blend with keyword relevance")
	semanticCmd.Flags().Float64Var(&semanticAlpha, "alpha", 0, "hybrid blend weight toward keyword score (0-1; 0 means the default 0.7)")
	rootCmd.AddCommand(semanticCmd)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/booger/internal/embedclient"
)

var embedBaseURL string
var embedModel string

var embedCmd = &cobra.Command{
	Use:   "embed <text>",
	Short: "Embed text against the configured backend, to check connectivity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := embedBaseURL
		if baseURL == "" {
			baseURL = embedclient.DefaultBaseURL
		}
		model := embedModel
		if model == "" {
			model = embedclient.DefaultModel
		}
		c := embedclient.New(baseURL, model)
		vec, err := c.Embed(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("model=%s dims=%d first5=%v\n", c.Model(), len(vec), head(vec, 5))
		return nil
	},
}

func head(v []float32, n int) []float32 {
	if len(v) < n {
		return v
	}
	return v[:n]
}

func init() {
	embedCmd.Flags().StringVar(&embedBaseURL, "base-url", "", "embedding backend base URL (default http://localhost:11434)")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "embedding model name (default nomic-embed-text)")
	rootCmd.AddCommand(embedCmd)
}

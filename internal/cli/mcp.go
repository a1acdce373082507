package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/booger/internal/dispatch"
	"github.com/dshills/booger/internal/protocol"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [path]",
	Short: "Run the JSON-RPC stdio server AI coding agents talk to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := flagProject
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			root = cwd
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		server := protocol.NewServer(dispatch.New(root))
		return server.Serve(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

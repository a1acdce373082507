// Package cli is booger's cobra command tree. Every subcommand builds
// a dispatch.Dispatcher rooted at the resolved project directory and
// calls the same Dispatcher.Call the MCP transport uses, so the CLI
// and the MCP surface can never drift (grounded on
// SloanGwaltney-synapse/cmd's one-file-per-command layout).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/booger/internal/dispatch"
	boogerlog "github.com/dshills/booger/internal/log"
)

var (
	flagProject string
	flagJSON    bool
	flagLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "booger",
	Short: "Local code search and working memory for AI coding agents",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return boogerlog.Init(flagLevel)
	},
}

// Execute runs the command tree, returning the exit code main should use.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "registered project name or path; defaults to the current directory")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print the structured result instead of the human-readable text")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
}

// dispatcherForCWD builds a Dispatcher whose default root is the
// current working directory, so a bare --project omission still
// resolves to "wherever this was invoked from" the way a human running
// booger from a repo checkout expects.
func dispatcherForCWD() (*dispatch.Dispatcher, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return dispatch.New(cwd), nil
}

// runTool calls name on a fresh dispatcher and prints the result per
// --json, exiting non-zero on a tool-level error so shell scripts can
// branch on booger's exit status.
func runTool(name string, args map[string]any) error {
	d, err := dispatcherForCWD()
	if err != nil {
		return err
	}
	if flagProject != "" {
		args["project"] = flagProject
	}
	res, err := d.Call(context.Background(), name, args)
	if err != nil {
		return err
	}
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Data); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		fmt.Println(res.Text)
	}
	if res.IsError {
		return fmt.Errorf("%s", res.Text)
	}
	return nil
}

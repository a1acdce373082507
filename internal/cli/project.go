package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/booger/internal/registry"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the registry of named projects at ~/.booger/projects.yaml",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a project under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return registry.Add(args[0], args[1])
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := registry.List()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No registered projects.")
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s\t%s\n", p.Name, p.Root)
		}
		return nil
	},
}

var projectAddAllCmd = &cobra.Command{
	Use:   "add-all <parent-dir>",
	Short: "Register every immediate git-repo subdirectory of parent-dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := registry.AddAll(args[0])
		if err != nil {
			return err
		}
		if len(added) == 0 {
			fmt.Println("No new projects found.")
			return nil
		}
		for _, p := range added {
			fmt.Printf("added %s\t%s\n", p.Name, p.Root)
		}
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectAddAllCmd)
	rootCmd.AddCommand(projectCmd)
}

// Package commands implements the CLI commands for the calder build tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// CLI represents the command line interface for calder.
type CLI struct {
	rootCmd *cobra.Command
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "calder",
		Short:         "Production build orchestration for front-end projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "calder.yaml", "Path to project file")

	c := &CLI{rootCmd: rootCmd}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// Root exposes the root command. Used for testing.
func (c *CLI) Root() *cobra.Command {
	return c.rootCmd
}

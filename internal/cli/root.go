package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// Execute runs the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithDependencies(NewRealDependencies())
}

// NewRootCommandWithDependencies creates the root command tree on top of deps
func NewRootCommandWithDependencies(deps *Dependencies) *cobra.Command {
	var showVersion bool
	var debug bool

	cmd := &cobra.Command{
		Use:   "iehook",
		Short: "iehook - session hooks for the intent-engine task tool",
		Long: `iehook - session hooks for the intent-engine task tool

iehook finds a working ie executable (installing it when allowed), runs
"ie status" and hands the result to the agent host as session context.

Examples:
  iehook session-start < hook-input.json
  iehook resolve
  iehook resolve --path-only`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return printVersion(cmd)
			}
			return cmd.Help()
		},
	}

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on stderr")

	cmd.AddCommand(newSessionStartCommand(deps, &debug))
	cmd.AddCommand(newResolveCommand(deps, &debug))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd)
		},
	}
}

func printVersion(cmd *cobra.Command) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), "iehook version "+version)
	return err
}

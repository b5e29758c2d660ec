package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "recount",
		Short:   "Bank statement reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newFlagCommand())
	rootCmd.AddCommand(newValidationsCommand())

	return rootCmd
}

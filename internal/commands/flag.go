package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/config"
	"github.com/recount-dev/recount/internal/ledgerfile"
)

// newFlagCommand records a flag-for-review marker against a ledger row the
// statement never showed.
func newFlagCommand() *cobra.Command {
	var (
		repoDir string
		reason  string
	)

	cmd := &cobra.Command{
		Use:   "flag <ledger-id>",
		Short: "Flag a ledger transaction for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := config.Load(filepath.Join(absDir, "recount.yaml"))
			if err != nil {
				return err
			}

			store := ledgerfile.NewStore(absDir, cfg.Currency)
			if err := store.FlagForReview(args[0], reason); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Flagged %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&reason, "reason", "", "why this row needs review")

	return cmd
}

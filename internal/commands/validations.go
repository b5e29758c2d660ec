package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/validationlog"
)

func newValidationsCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "validations",
		Short: "List recorded validations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			records, err := validationlog.Read(absDir)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No validations recorded.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  balance=%s  matched=%d added=%d flagged=%d\n",
					r.RecordID, r.ValidationDate.Format("2006-01-02"), r.AccountID,
					r.AssertedBalance.Format(), r.MatchedCount, r.AddedCount, r.FlaggedCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

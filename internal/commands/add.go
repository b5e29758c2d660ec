package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/config"
	"github.com/recount-dev/recount/internal/ledgerfile"
	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

// newAddCommand records a statement row the user disposed of as "add" as a
// new ledger transaction.
func newAddCommand() *cobra.Command {
	var (
		repoDir     string
		dateStr     string
		amountStr   string
		category    string
		subcategory string
		recipient   string
		description string
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "add <account>",
		Short: "Append a transaction to an account's ledger",
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
			if _, ok := cfg.FindAccount(args[0]); !ok {
				return fmt.Errorf("account %q not found in recount.yaml", args[0])
			}

			date, err := time.Parse(windowDateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("parsing --date %q: %w", dateStr, err)
			}
			amount, err := money.Parse(amountStr, cfg.Currency)
			if err != nil {
				return err
			}

			store := ledgerfile.NewStore(absDir, cfg.Currency)
			assigned, err := store.AppendTransaction(args[0], model.LedgerTransaction{
				Date:            date,
				Amount:          amount,
				CategoryName:    category,
				SubcategoryName: subcategory,
				Recipient:       recipient,
				Description:     description,
				Tags:            tags,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", assigned, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&amountStr, "amount", "", "signed amount, e.g. -25.00 (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "subcategory name")
	cmd.Flags().StringVar(&recipient, "recipient", "", "recipient")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&tags, "tags", "", "semicolon-separated tags")

	return cmd
}

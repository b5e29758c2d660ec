package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/recount-dev/recount/internal/categorize"
	"github.com/recount-dev/recount/internal/config"
	"github.com/recount-dev/recount/internal/ledgerfile"
	"github.com/recount-dev/recount/internal/logging"
	"github.com/recount-dev/recount/internal/matcher"
	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
	"github.com/recount-dev/recount/internal/reconcile"
	"github.com/recount-dev/recount/internal/session"
	"github.com/recount-dev/recount/internal/validationlog"
)

const windowDateFormat = "2006-01-02"

func newReconcileCommand() *cobra.Command {
	var (
		repoDir       string
		statementPath string
		startStr      string
		endStr        string
		asJSON        bool
		complete      bool
		assertBalance string
		addRows       []int
		ignoreRows    []int
		flagIDs       []string
		ignoreIDs     []string
	)

	cmd := &cobra.Command{
		Use:   "reconcile <account>",
		Short: "Reconcile a bank statement CSV against an account's ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runReconcile(cmd, reconcileParams{
				repoRoot:      absDir,
				accountID:     args[0],
				statementPath: statementPath,
				start:         startStr,
				end:           endStr,
				asJSON:        asJSON,
				complete:      complete,
				assertBalance: assertBalance,
				addRows:       addRows,
				ignoreRows:    ignoreRows,
				flagIDs:       flagIDs,
				ignoreIDs:     ignoreIDs,
			})
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&statementPath, "statement", "", "statement CSV file (required)")
	_ = cmd.MarkFlagRequired("statement")
	cmd.Flags().StringVar(&startStr, "start", "", "ledger window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "ledger window end (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")
	cmd.Flags().BoolVar(&complete, "complete", false, "record a validation for this run")
	cmd.Flags().StringVar(&assertBalance, "assert-balance", "", "asserted ending balance override")
	cmd.Flags().IntSliceVar(&addRows, "add", nil, "unmatched statement row index to add to the ledger (repeatable)")
	cmd.Flags().IntSliceVar(&ignoreRows, "ignore-row", nil, "unmatched statement row index to ignore (repeatable)")
	cmd.Flags().StringSliceVar(&flagIDs, "flag", nil, "unmatched ledger id to flag for review (repeatable)")
	cmd.Flags().StringSliceVar(&ignoreIDs, "ignore-ledger", nil, "unmatched ledger id to ignore (repeatable)")

	return cmd
}

type reconcileParams struct {
	repoRoot      string
	accountID     string
	statementPath string
	start         string
	end           string
	asJSON        bool
	complete      bool
	assertBalance string
	addRows       []int
	ignoreRows    []int
	flagIDs       []string
	ignoreIDs     []string
}

func runReconcile(cmd *cobra.Command, p reconcileParams) error {
	cfg, err := config.Load(filepath.Join(p.repoRoot, "recount.yaml"))
	if err != nil {
		return err
	}
	if _, ok := cfg.FindAccount(p.accountID); !ok {
		return fmt.Errorf("account %q not found in recount.yaml: %w", p.accountID, reconcile.ErrMissingAccount)
	}

	csvBytes, err := os.ReadFile(p.statementPath)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	start, end, err := parseWindow(p.start, p.end)
	if err != nil {
		return err
	}

	categorizer, err := categorize.Load(filepath.Join(p.repoRoot, cfg.Statement.Rules))
	if err != nil {
		return err
	}

	svc := reconcile.NewService(reconcile.Params{
		Logger:      logging.New(),
		Currency:    cfg.Currency,
		DateFormats: cfg.Statement.DateFormats,
		Categorizer: categorizer,
		Matching: matcher.Options{
			ToleranceDays: cfg.Matching.Tolerance(),
			Exact:         cfg.Matching.ExactDates,
		},
	})

	store := ledgerfile.NewStore(p.repoRoot, cfg.Currency)
	rep, err := svc.RunFromSource(store, p.accountID, csvBytes, start, end)
	if err != nil {
		return err
	}

	if p.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rep.HumanSummary())
	}

	if !p.complete {
		return nil
	}

	sess := session.New(p.accountID, rep)
	if err := applyDispositions(sess, store, p); err != nil {
		return err
	}
	var override *money.Money
	if p.assertBalance != "" {
		m, err := money.Parse(p.assertBalance, cfg.Currency)
		if err != nil {
			return err
		}
		override = &m
	}

	rec, err := sess.Complete(time.Now().UTC(), override)
	if err != nil {
		return err
	}
	stored, err := validationlog.Append(p.repoRoot, rec)
	if err != nil {
		return fmt.Errorf("writing validation record: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded validation %s (balance %s)\n", stored.RecordID, stored.AssertedBalance)
	return nil
}

// applyDispositions resolves unmatched rows named by the --add,
// --ignore-row, --flag, and --ignore-ledger flags, persisting added ledger
// rows and review flags before the validation record is written. A flag
// naming a row or id that is not pending unmatched is an error.
func applyDispositions(sess *session.Session, store *ledgerfile.Store, p reconcileParams) error {
	rep := sess.Report()
	for _, idx := range p.addRows {
		if err := sess.ResolveImported(idx, session.ImportedAdded); err != nil {
			return fmt.Errorf("--add %d: %w", idx, err)
		}
		txn, ok := importedByIndex(rep.Imported, idx)
		if !ok {
			return fmt.Errorf("--add %d: no such statement row", idx)
		}
		if _, err := store.AppendTransaction(p.accountID, model.LedgerTransaction{
			Date:        txn.Date,
			Amount:      txn.Amount,
			Recipient:   txn.SuggestedRecipient,
			Description: txn.Description,
		}); err != nil {
			return fmt.Errorf("adding statement row %d: %w", idx, err)
		}
	}
	for _, idx := range p.ignoreRows {
		if err := sess.ResolveImported(idx, session.ImportedIgnored); err != nil {
			return fmt.Errorf("--ignore-row %d: %w", idx, err)
		}
	}
	for _, id := range p.flagIDs {
		if err := sess.ResolveLedger(id, session.LedgerFlagged); err != nil {
			return fmt.Errorf("--flag %s: %w", id, err)
		}
		if err := store.FlagForReview(id, "missing from statement"); err != nil {
			return fmt.Errorf("flagging %s: %w", id, err)
		}
	}
	for _, id := range p.ignoreIDs {
		if err := sess.ResolveLedger(id, session.LedgerIgnored); err != nil {
			return fmt.Errorf("--ignore-ledger %s: %w", id, err)
		}
	}
	return nil
}

func importedByIndex(txns []model.ImportedTransaction, idx int) (model.ImportedTransaction, bool) {
	for _, txn := range txns {
		if txn.Index == idx {
			return txn, true
		}
	}
	return model.ImportedTransaction{}, false
}

// parseWindow turns optional flag values into a concrete window; absent
// flags mean the whole ledger file.
func parseWindow(startStr, endStr string) (start, end time.Time, err error) {
	start = time.Time{}
	end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	if startStr != "" {
		start, err = time.Parse(windowDateFormat, startStr)
		if err != nil {
			return start, end, fmt.Errorf("parsing --start %q: %w", startStr, err)
		}
	}
	if endStr != "" {
		end, err = time.Parse(windowDateFormat, endStr)
		if err != nil {
			return start, end, fmt.Errorf("parsing --end %q: %w", endStr, err)
		}
	}
	return start, end, nil
}

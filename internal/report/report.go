// Package report derives the read-only reconciliation report from matcher
// output: the unmatched sets on each side, summary counts, and the
// statement-implied ending balance.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

// Summary holds the headline counts for one reconciliation run.
// matchedCount + missingCount == totalImported and
// matchedCount + extraCount == totalLedger always hold.
type Summary struct {
	TotalImported       int `json:"totalImported"`
	TotalLedger         int `json:"totalLedger"`
	MatchedCount        int `json:"matchedCount"`
	ExactDateMatches    int `json:"exactDateMatches"`
	DateMismatchMatches int `json:"dateMismatchMatches"`
	MissingCount        int `json:"missingCount"`
	ExtraCount          int `json:"extraCount"`
	ParseErrorCount     int `json:"parseErrorCount"`
}

// Report is the full result of one reconciliation run. Built once per
// upload and never mutated afterwards.
type Report struct {
	Imported []model.ImportedTransaction `json:"imported"`
	Ledger   []model.LedgerTransaction   `json:"ledger"`
	Matches  []model.Match               `json:"matches"`

	// MissingFromLedger holds imported indexes with no match, ascending.
	MissingFromLedger []int `json:"missingFromLedger"`
	// NotInImport holds ledger ids with no match, ascending.
	NotInImport []string `json:"notInImport"`

	CSVEndingBalance *money.Money `json:"csvEndingBalance,omitempty"`
	ParseErrors      []string     `json:"parseErrors,omitempty"`
	Summary          Summary      `json:"summary"`
}

// Build assembles a Report from normalizer and matcher output.
func Build(imported []model.ImportedTransaction, ledger []model.LedgerTransaction, matches []model.Match, parseErrors []string) Report {
	matchedImported := make(map[int]bool, len(matches))
	matchedLedger := make(map[string]bool, len(matches))
	exactDate := 0
	for _, m := range matches {
		matchedImported[m.ImportedIndex] = true
		matchedLedger[m.LedgerID] = true
		if !m.DateMismatch {
			exactDate++
		}
	}

	missing := make([]int, 0)
	for _, txn := range imported {
		if !matchedImported[txn.Index] {
			missing = append(missing, txn.Index)
		}
	}
	sort.Ints(missing)

	extra := make([]string, 0)
	for _, txn := range ledger {
		if !matchedLedger[txn.ID] {
			extra = append(extra, txn.ID)
		}
	}
	sort.Strings(extra)

	return Report{
		Imported:          imported,
		Ledger:            ledger,
		Matches:           matches,
		MissingFromLedger: missing,
		NotInImport:       extra,
		CSVEndingBalance:  endingBalance(imported),
		ParseErrors:       parseErrors,
		Summary: Summary{
			TotalImported:       len(imported),
			TotalLedger:         len(ledger),
			MatchedCount:        len(matches),
			ExactDateMatches:    exactDate,
			DateMismatchMatches: len(matches) - exactDate,
			MissingCount:        len(missing),
			ExtraCount:          len(extra),
			ParseErrorCount:     len(parseErrors),
		},
	}
}

// endingBalance returns the running balance of the highest-index row that
// carries one. Statement rows are trusted to already be in chronological
// order; an out-of-order export surfaces here as a wrong-looking balance
// rather than being silently re-sorted.
func endingBalance(imported []model.ImportedTransaction) *money.Money {
	for i := len(imported) - 1; i >= 0; i-- {
		if imported[i].RunningBalance != nil {
			bal := *imported[i].RunningBalance
			return &bal
		}
	}
	return nil
}

// BalanceDiff returns csvEndingBalance - ledgerBalance. ok is false when
// the statement carried no running balance, in which case verification is
// skipped downstream.
func (r Report) BalanceDiff(ledgerBalance money.Money) (diff money.Money, ok bool) {
	if r.CSVEndingBalance == nil {
		return money.Money{}, false
	}
	return r.CSVEndingBalance.Sub(ledgerBalance), true
}

// HumanSummary renders the report for terminal output.
func (r Report) HumanSummary() string {
	var b strings.Builder
	s := r.Summary
	fmt.Fprintf(&b, "Imported: %d  Ledger: %d  Matched: %d (%d exact date, %d shifted)\n",
		s.TotalImported, s.TotalLedger, s.MatchedCount, s.ExactDateMatches, s.DateMismatchMatches)

	byIndex := make(map[int]model.ImportedTransaction, len(r.Imported))
	for _, txn := range r.Imported {
		byIndex[txn.Index] = txn
	}
	byID := make(map[string]model.LedgerTransaction, len(r.Ledger))
	for _, txn := range r.Ledger {
		byID[txn.ID] = txn
	}

	if len(r.MissingFromLedger) > 0 {
		fmt.Fprintf(&b, "\nIn statement but not in ledger:\n")
		for _, idx := range r.MissingFromLedger {
			txn := byIndex[idx]
			fmt.Fprintf(&b, "- #%d %s %s %s\n", idx, txn.RawDate, txn.Amount.Format(), txn.Description)
		}
	}
	if len(r.NotInImport) > 0 {
		fmt.Fprintf(&b, "\nIn ledger but not in statement:\n")
		for _, id := range r.NotInImport {
			txn := byID[id]
			fmt.Fprintf(&b, "- %s %s %s %s\n", id, txn.Date.Format("2006-01-02"), txn.Amount.Format(), txn.Recipient)
		}
	}
	if r.CSVEndingBalance != nil {
		fmt.Fprintf(&b, "\nStatement ending balance: %s\n", r.CSVEndingBalance.Format())
	}
	if len(r.ParseErrors) > 0 {
		fmt.Fprintf(&b, "\nParse errors:\n")
		for _, e := range r.ParseErrors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}

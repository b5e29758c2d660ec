// Package matcher computes the one-to-one assignment between imported
// statement rows and ledger rows. Transactions can only ever match inside
// their exact-amount group; within a group the closest dates win, with
// explicit tie-breaks so the result is reproducible run over run.
package matcher

import (
	"sort"
	"time"

	"github.com/recount-dev/recount/internal/model"
)

// DefaultToleranceDays reflects typical bank posting delay.
const DefaultToleranceDays = 5

// Options controls matching behavior.
type Options struct {
	// ToleranceDays is the maximum |days difference| for an eligible pair.
	// Zero means same-day only; callers wanting the default pass
	// DefaultToleranceDays themselves.
	ToleranceDays int

	// Exact restricts matching to identical dates regardless of
	// ToleranceDays.
	Exact bool
}

func (o Options) tolerance() int {
	if o.Exact || o.ToleranceDays < 0 {
		return 0
	}
	return o.ToleranceDays
}

// candidate is an eligible (imported, ledger) pair inside one amount group.
type candidate struct {
	importedIndex int
	ledgerID      string
	daysDiff      int
	absDays       int
}

// Match computes matches between imported and ledger transactions. Amount
// groups are processed in ascending amount order; inside a group the pair
// with the smallest |days difference| is committed first, ties broken by
// smallest imported index, then smallest ledger id. Both sides of a
// committed pair are consumed and never match again.
func Match(imported []model.ImportedTransaction, ledger []model.LedgerTransaction, opts Options) []model.Match {
	tolerance := opts.tolerance()

	importedByAmount := make(map[int64][]model.ImportedTransaction)
	ledgerByAmount := make(map[int64][]model.LedgerTransaction)
	for _, txn := range imported {
		importedByAmount[txn.Amount.Units] = append(importedByAmount[txn.Amount.Units], txn)
	}
	for _, txn := range ledger {
		ledgerByAmount[txn.Amount.Units] = append(ledgerByAmount[txn.Amount.Units], txn)
	}

	// Stable group order: ascending amount.
	amounts := make([]int64, 0, len(importedByAmount))
	for amount := range importedByAmount {
		if _, ok := ledgerByAmount[amount]; ok {
			amounts = append(amounts, amount)
		}
	}
	sort.Slice(amounts, func(i, j int) bool { return amounts[i] < amounts[j] })

	var matches []model.Match
	for _, amount := range amounts {
		matches = append(matches, matchGroup(importedByAmount[amount], ledgerByAmount[amount], tolerance)...)
	}
	return matches
}

func matchGroup(imported []model.ImportedTransaction, ledger []model.LedgerTransaction, tolerance int) []model.Match {
	var candidates []candidate
	for _, it := range imported {
		for _, lt := range ledger {
			diff := daysBetween(it.Date, lt.Date)
			abs := diff
			if abs < 0 {
				abs = -abs
			}
			if abs > tolerance {
				continue
			}
			candidates = append(candidates, candidate{
				importedIndex: it.Index,
				ledgerID:      lt.ID,
				daysDiff:      diff,
				absDays:       abs,
			})
		}
	}

	// Committing in this order is equivalent to repeatedly selecting the
	// best remaining eligible pair.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.absDays != b.absDays {
			return a.absDays < b.absDays
		}
		if a.importedIndex != b.importedIndex {
			return a.importedIndex < b.importedIndex
		}
		return a.ledgerID < b.ledgerID
	})

	usedImported := make(map[int]bool)
	usedLedger := make(map[string]bool)
	var matches []model.Match
	for _, c := range candidates {
		if usedImported[c.importedIndex] || usedLedger[c.ledgerID] {
			continue
		}
		usedImported[c.importedIndex] = true
		usedLedger[c.ledgerID] = true
		matches = append(matches, model.Match{
			ImportedIndex:  c.importedIndex,
			LedgerID:       c.ledgerID,
			DateMismatch:   c.daysDiff != 0,
			DaysDifference: c.daysDiff,
		})
	}
	return matches
}

// daysBetween returns the calendar-day difference to minus from, ignoring
// any time-of-day component.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

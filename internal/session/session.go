// Package session tracks user dispositions over one reconciliation run:
// which unmatched statement rows get ignored or added to the ledger, and
// which unmatched ledger rows get ignored or flagged for review. One
// Session belongs to exactly one upload; a re-upload means a new Session.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
	"github.com/recount-dev/recount/internal/report"
)

// ImportedState is the disposition of an unmatched statement row.
type ImportedState string

// LedgerState is the disposition of an unmatched ledger row.
type LedgerState string

const (
	ImportedUnresolved ImportedState = "unresolved"
	ImportedIgnored    ImportedState = "ignored"
	ImportedAdded      ImportedState = "added"

	LedgerUnresolved LedgerState = "unresolved"
	LedgerIgnored    LedgerState = "ignored"
	LedgerFlagged    LedgerState = "flagged"
)

// Session holds the run-scoped disposition state. Not safe for concurrent
// use; each in-flight reconciliation owns its Session exclusively.
type Session struct {
	runID     string
	accountID string
	rep       report.Report

	imported map[int]ImportedState
	ledger   map[string]LedgerState
}

// New creates a Session over a freshly built report. All unmatched rows
// start Unresolved.
func New(accountID string, rep report.Report) *Session {
	s := &Session{
		runID:     uuid.NewString(),
		accountID: accountID,
		rep:       rep,
		imported:  make(map[int]ImportedState, len(rep.MissingFromLedger)),
		ledger:    make(map[string]LedgerState, len(rep.NotInImport)),
	}
	for _, idx := range rep.MissingFromLedger {
		s.imported[idx] = ImportedUnresolved
	}
	for _, id := range rep.NotInImport {
		s.ledger[id] = LedgerUnresolved
	}
	return s
}

// RunID identifies this session.
func (s *Session) RunID() string { return s.runID }

// Report returns the underlying immutable report.
func (s *Session) Report() report.Report { return s.rep }

// ResolveImported transitions one unmatched statement row to Ignored or
// Added. Transitions are one-way: resolving an already-resolved row is a
// no-op, so retried UI clicks never shift the counts.
func (s *Session) ResolveImported(index int, state ImportedState) error {
	if state != ImportedIgnored && state != ImportedAdded {
		return fmt.Errorf("invalid imported disposition %q", state)
	}
	cur, ok := s.imported[index]
	if !ok {
		return fmt.Errorf("imported index %d is not an unmatched row", index)
	}
	if cur != ImportedUnresolved {
		return nil
	}
	s.imported[index] = state
	return nil
}

// ResolveLedger transitions one unmatched ledger row to Ignored or Flagged.
// Same one-way, idempotent semantics as ResolveImported.
func (s *Session) ResolveLedger(id string, state LedgerState) error {
	if state != LedgerIgnored && state != LedgerFlagged {
		return fmt.Errorf("invalid ledger disposition %q", state)
	}
	cur, ok := s.ledger[id]
	if !ok {
		return fmt.Errorf("ledger id %q is not an unmatched row", id)
	}
	if cur != LedgerUnresolved {
		return nil
	}
	s.ledger[id] = state
	return nil
}

// PendingImported returns the still-unresolved subset of missingFromLedger,
// in report order. Resolved rows drop out of the actionable list but stay
// in the report for audit.
func (s *Session) PendingImported() []int {
	var pending []int
	for _, idx := range s.rep.MissingFromLedger {
		if s.imported[idx] == ImportedUnresolved {
			pending = append(pending, idx)
		}
	}
	return pending
}

// PendingLedger returns the still-unresolved subset of notInImport.
func (s *Session) PendingLedger() []string {
	var pending []string
	for _, id := range s.rep.NotInImport {
		if s.ledger[id] == LedgerUnresolved {
			pending = append(pending, id)
		}
	}
	return pending
}

// AddedCount returns how many statement rows were resolved as Added.
func (s *Session) AddedCount() int { return s.countImported(ImportedAdded) }

// IgnoredImportedCount returns how many statement rows were ignored.
func (s *Session) IgnoredImportedCount() int { return s.countImported(ImportedIgnored) }

// FlaggedCount returns how many ledger rows were flagged for review.
func (s *Session) FlaggedCount() int { return s.countLedger(LedgerFlagged) }

// IgnoredLedgerCount returns how many ledger rows were ignored.
func (s *Session) IgnoredLedgerCount() int { return s.countLedger(LedgerIgnored) }

func (s *Session) countImported(state ImportedState) int {
	n := 0
	for _, st := range s.imported {
		if st == state {
			n++
		}
	}
	return n
}

func (s *Session) countLedger(state LedgerState) int {
	n := 0
	for _, st := range s.ledger {
		if st == state {
			n++
		}
	}
	return n
}

// Complete assembles the ValidationRecord for this session. The asserted
// balance is the statement ending balance unless the caller overrides it;
// with neither available Complete fails. Each call returns an independent
// record: a second confirmed snapshot is a second record, and avoiding
// duplicate submission is the caller's job.
func (s *Session) Complete(when time.Time, balanceOverride *money.Money) (model.ValidationRecord, error) {
	asserted := balanceOverride
	if asserted == nil {
		asserted = s.rep.CSVEndingBalance
	}
	if asserted == nil {
		return model.ValidationRecord{}, fmt.Errorf("no statement ending balance; an asserted balance override is required")
	}

	return model.ValidationRecord{
		RunID:           s.runID,
		AccountID:       s.accountID,
		ValidationDate:  when,
		AssertedBalance: *asserted,
		MatchedCount:    s.rep.Summary.MatchedCount,
		AddedCount:      s.AddedCount(),
		FlaggedCount:    s.FlaggedCount(),
	}, nil
}

// Package reconcile drives one reconciliation run: validate inputs,
// normalize the statement, match against the ledger window, and assemble
// the report. The engine is pure and synchronous; it holds no state
// between runs and is safe to invoke concurrently for different runs.
package reconcile

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/recount-dev/recount/internal/matcher"
	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/report"
	"github.com/recount-dev/recount/internal/statement"
)

// Run-level input failures. These fail fast: no partial report is built.
var (
	ErrMissingAccount = errors.New("missing account id")
	ErrEmptyStatement = errors.New("statement CSV is missing or empty")
	ErrEmptyLedger    = errors.New("ledger window is empty")
)

// LedgerSource supplies the ledger's transactions for one account and
// date window. Implemented by ledgerfile.Store; external hosts supply
// their own.
type LedgerSource interface {
	Transactions(accountID string, start, end time.Time) ([]model.LedgerTransaction, error)
}

// Service runs reconciliations with fixed parsing and matching settings.
type Service struct {
	log         zerolog.Logger
	currency    string
	dateFormats []string
	categorizer statement.Categorizer
	matchOpts   matcher.Options
}

// Params configures a Service.
type Params struct {
	Logger      zerolog.Logger
	Currency    string
	DateFormats []string              // nil means statement.DefaultDateFormats
	Categorizer statement.Categorizer // nil means no suggestions
	Matching    matcher.Options
}

// NewService creates a reconciliation Service.
func NewService(p Params) *Service {
	return &Service{
		log:         p.Logger,
		currency:    p.Currency,
		dateFormats: p.DateFormats,
		categorizer: p.Categorizer,
		matchOpts:   p.Matching,
	}
}

// Run reconciles one statement upload against a ledger window and returns
// the immutable report. Row-level parse failures are carried inside the
// report; only input-class problems fail the run.
func (s *Service) Run(accountID string, csv []byte, ledger []model.LedgerTransaction) (report.Report, error) {
	if accountID == "" {
		return report.Report{}, ErrMissingAccount
	}
	if len(bytes.TrimSpace(csv)) == 0 {
		return report.Report{}, ErrEmptyStatement
	}
	if len(ledger) == 0 {
		return report.Report{}, ErrEmptyLedger
	}

	imported, parseErrors, err := statement.Normalize(bytes.NewReader(csv), statement.Options{
		Currency:    s.currency,
		DateFormats: s.dateFormats,
		Categorizer: s.categorizer,
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("normalizing statement: %w", err)
	}
	if len(imported) == 0 && len(parseErrors) == 0 {
		return report.Report{}, ErrEmptyStatement
	}

	matches := matcher.Match(imported, ledger, s.matchOpts)
	rep := report.Build(imported, ledger, matches, parseErrors)

	s.log.Info().
		Str("account", accountID).
		Int("imported", rep.Summary.TotalImported).
		Int("ledger", rep.Summary.TotalLedger).
		Int("matched", rep.Summary.MatchedCount).
		Int("missing", rep.Summary.MissingCount).
		Int("extra", rep.Summary.ExtraCount).
		Int("parse_errors", rep.Summary.ParseErrorCount).
		Msg("reconciliation complete")

	return rep, nil
}

// RunFromSource is Run with the ledger window pulled from a LedgerSource.
func (s *Service) RunFromSource(src LedgerSource, accountID string, csv []byte, start, end time.Time) (report.Report, error) {
	if accountID == "" {
		return report.Report{}, ErrMissingAccount
	}
	ledger, err := src.Transactions(accountID, start, end)
	if err != nil {
		return report.Report{}, fmt.Errorf("querying ledger: %w", err)
	}
	return s.Run(accountID, csv, ledger)
}

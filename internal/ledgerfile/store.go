package ledgerfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/recount-dev/recount/internal/id"
	"github.com/recount-dev/recount/internal/model"
)

// Store is a file-backed ledger: one CSV per account under
// <root>/ledgers/, plus a flag log under <root>/logs/.
type Store struct {
	root     string
	currency string
}

// flagHeader is the CSV header for logs/flags.csv.
const flagHeader = "flagged_at,ledger_id,reason"

// NewStore creates a Store rooted at a project directory.
func NewStore(root, currency string) *Store {
	return &Store{root: root, currency: currency}
}

// Transactions returns the account's ledger rows whose dates fall inside
// [start, end], in file order. A missing ledger file yields an empty window.
func (s *Store) Transactions(accountID string, start, end time.Time) ([]model.LedgerTransaction, error) {
	all, err := s.readAll(accountID)
	if err != nil {
		return nil, err
	}

	var window []model.LedgerTransaction
	for _, txn := range all {
		if txn.Date.Before(start) || txn.Date.After(end) {
			continue
		}
		window = append(window, txn)
	}
	return window, nil
}

// AppendTransaction assigns the next ledger ID and appends the row to the
// account's ledger file, creating file and header if needed. Returns the
// assigned ID.
func (s *Store) AppendTransaction(accountID string, txn model.LedgerTransaction) (string, error) {
	all, err := s.readAll(accountID)
	if err != nil {
		return "", err
	}

	maxSeq := 0
	for _, existing := range all {
		seq, err := id.ParseLedgerSeq(existing.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	txn.ID = id.FormatLedgerID(maxSeq + 1)

	path := s.ledgerPath(accountID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating ledgers dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, []model.LedgerTransaction{txn}); err != nil {
		return "", fmt.Errorf("appending transaction: %w", err)
	}
	return txn.ID, nil
}

// FlagForReview appends a flag marker to <root>/logs/flags.csv.
func (s *Store) FlagForReview(ledgerID, reason string) error {
	dir := filepath.Join(s.root, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, "flags.csv")
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening flag log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(flagHeader, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	row := []string{time.Now().UTC().Format(time.RFC3339), ledgerID, reason}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("writing flag: %w", err)
	}
	return cw.Error()
}

func (s *Store) readAll(accountID string) ([]model.LedgerTransaction, error) {
	path := s.ledgerPath(accountID)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f, s.currency)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

func (s *Store) ledgerPath(accountID string) string {
	return filepath.Join(s.root, "ledgers", accountID+".csv")
}

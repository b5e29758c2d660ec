package statement

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

// Categorizer suggests a recipient for free-text transaction descriptions.
// Implementations may fail or return ""; either way the row gets no
// suggestion and normalization continues.
type Categorizer interface {
	Suggest(description string) (string, error)
}

// Fixed statement schema: date,type,amount,balance(optional),description.
// The balance column may be absent entirely, giving four-field rows.
const (
	colDate    = 0
	colKind    = 1
	colAmount  = 2
	colBalance = 3
	colDesc    = 4

	fieldsWithBalance    = 5
	fieldsWithoutBalance = 4
)

// DefaultDateFormats are tried in order when parsing statement dates.
var DefaultDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// Options controls normalization of one statement.
type Options struct {
	Currency    string
	DateFormats []string // nil means DefaultDateFormats
	Categorizer Categorizer
}

// Normalize parses statement CSV bytes into ImportedTransactions. Rows that
// fail to parse, including rows with broken CSV quoting, are skipped and
// recorded as diagnostics with their 1-based data-row number; indexes are
// reassigned to be contiguous over the rows that survive. Only an
// unreadable stream is a run-level error.
//
// The schema is strictly one record per line, so each line is parsed
// independently; a malformed row can never consume its neighbors the way a
// stray quote does in a whole-file CSV read.
func Normalize(r io.Reader, opts Options) ([]model.ImportedTransaction, []string, error) {
	sc := bufio.NewScanner(r)

	// Header row.
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, nil, fmt.Errorf("reading statement CSV: %w", err)
		}
		return nil, nil, nil
	}

	formats := opts.DateFormats
	if len(formats) == 0 {
		formats = DefaultDateFormats
	}

	var txns []model.ImportedTransaction
	var parseErrors []string
	row := 0 // 1-based data row for diagnostics
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		row++

		rec, err := parseLine(line)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}

		txn, err := normalizeRow(rec, opts.Currency, formats)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		txn.Index = len(txns)
		txn.SuggestedRecipient = suggest(opts.Categorizer, txn.Description)
		txns = append(txns, txn)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	return txns, parseErrors, nil
}

// parseLine parses a single CSV record.
func parseLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1 // schema allows 4 or 5 fields
	cr.TrimLeadingSpace = true

	rec, err := cr.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.Err
		}
		return nil, err
	}
	return rec, nil
}

func normalizeRow(rec []string, currency string, formats []string) (model.ImportedTransaction, error) {
	if len(rec) != fieldsWithBalance && len(rec) != fieldsWithoutBalance {
		return model.ImportedTransaction{}, fmt.Errorf("expected %d or %d fields, got %d",
			fieldsWithoutBalance, fieldsWithBalance, len(rec))
	}

	rawDate := strings.TrimSpace(rec[colDate])
	date, err := parseDate(rawDate, formats)
	if err != nil {
		return model.ImportedTransaction{}, err
	}

	amount, err := money.Parse(strings.TrimSpace(rec[colAmount]), currency)
	if err != nil {
		return model.ImportedTransaction{}, err
	}

	txn := model.ImportedTransaction{
		Date:    date,
		RawDate: rawDate,
		Kind:    strings.TrimSpace(rec[colKind]),
		Amount:  amount,
	}

	if len(rec) == fieldsWithBalance {
		txn.Description = rec[colDesc]
		if bal := strings.TrimSpace(rec[colBalance]); bal != "" {
			b, err := money.Parse(bal, currency)
			if err != nil {
				return model.ImportedTransaction{}, err
			}
			txn.RunningBalance = &b
		}
	} else {
		txn.Description = rec[colBalance] // four-field rows have no balance column
	}

	return txn, nil
}

func parseDate(raw string, formats []string) (time.Time, error) {
	for _, f := range formats {
		if d, err := time.Parse(f, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// suggest swallows categorizer failures; a missing suggestion is never fatal.
func suggest(cat Categorizer, description string) string {
	if cat == nil {
		return ""
	}
	s, err := cat.Suggest(description)
	if err != nil {
		return ""
	}
	return s
}

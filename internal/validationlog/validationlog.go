// Package validationlog persists ValidationRecords to an append-only CSV
// log under <root>/logs/validations.csv. Record IDs are assigned on append
// and are sequential within a validation month.
package validationlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/recount-dev/recount/internal/id"
	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

// Header is the CSV header for validations.csv.
const Header = "record_id,run_id,account_id,validation_date,asserted_balance,currency,matched,added,flagged"

const (
	numFields  = 9
	dateFormat = "2006-01-02"

	logDir  = "logs"
	logFile = "logs/validations.csv"

	colRecordID  = 0
	colRunID     = 1
	colAccountID = 2
	colDate      = 3
	colBalance   = 4
	colCurrency  = 5
	colMatched   = 6
	colAdded     = 7
	colFlagged   = 8
)

// MarshalRecord converts a ValidationRecord to a CSV row.
func MarshalRecord(r model.ValidationRecord) []string {
	row := make([]string, numFields)
	row[colRecordID] = r.RecordID
	row[colRunID] = r.RunID
	row[colAccountID] = r.AccountID
	row[colDate] = r.ValidationDate.Format(dateFormat)
	row[colBalance] = r.AssertedBalance.Format()
	row[colCurrency] = r.AssertedBalance.Currency
	row[colMatched] = strconv.Itoa(r.MatchedCount)
	row[colAdded] = strconv.Itoa(r.AddedCount)
	row[colFlagged] = strconv.Itoa(r.FlaggedCount)
	return row
}

// UnmarshalRecord converts a CSV row to a ValidationRecord.
func UnmarshalRecord(record []string) (model.ValidationRecord, error) {
	if len(record) != numFields {
		return model.ValidationRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("parsing validation_date %q: %w", record[colDate], err)
	}

	balance, err := money.Parse(record[colBalance], record[colCurrency])
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("parsing asserted_balance %q: %w", record[colBalance], err)
	}

	matched, err := strconv.Atoi(record[colMatched])
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("parsing matched %q: %w", record[colMatched], err)
	}
	added, err := strconv.Atoi(record[colAdded])
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("parsing added %q: %w", record[colAdded], err)
	}
	flagged, err := strconv.Atoi(record[colFlagged])
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("parsing flagged %q: %w", record[colFlagged], err)
	}

	return model.ValidationRecord{
		RecordID:        record[colRecordID],
		RunID:           record[colRunID],
		AccountID:       record[colAccountID],
		ValidationDate:  date,
		AssertedBalance: balance,
		MatchedCount:    matched,
		AddedCount:      added,
		FlaggedCount:    flagged,
	}, nil
}

// Append assigns the next record ID for the record's validation month and
// writes the record to <root>/logs/validations.csv, creating file and
// header if needed. Returns the stored record.
func Append(root string, r model.ValidationRecord) (model.ValidationRecord, error) {
	existing, err := Read(root)
	if err != nil {
		return model.ValidationRecord{}, err
	}

	year := r.ValidationDate.Year()
	month := int(r.ValidationDate.Month())
	maxSeq := 0
	for _, rec := range existing {
		y, m, seq, err := id.ParseValidationID(rec.RecordID)
		if err != nil || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	r.RecordID = id.FormatValidationID(year, month, maxSeq+1)

	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.ValidationRecord{}, fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return model.ValidationRecord{}, fmt.Errorf("opening validation log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return model.ValidationRecord{}, fmt.Errorf("writing header: %w", err)
		}
	}

	if err := cw.Write(MarshalRecord(r)); err != nil {
		return model.ValidationRecord{}, fmt.Errorf("writing record: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return model.ValidationRecord{}, err
	}
	return r, nil
}

// Read returns all records from <root>/logs/validations.csv, or nil if the
// log does not exist yet.
func Read(root string) ([]model.ValidationRecord, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening validation log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

func readRecords(r io.Reader) ([]model.ValidationRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading validation log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []model.ValidationRecord
	for i, rec := range records[1:] {
		v, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

package ledgerfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

// Header is the CSV header for a ledger export file.
const Header = "id,date,amount,category,subcategory,recipient,description,tags"

const (
	numFields      = 8
	dateFormat     = "2006-01-02"
	colID          = 0
	colDate        = 1
	colAmount      = 2
	colCategory    = 3
	colSubcategory = 4
	colRecipient   = 5
	colDesc        = 6
	colTags        = 7
)

// ReadTransactions reads all ledger transactions from a reader.
func ReadTransactions(r io.Reader, currency string) ([]model.LedgerTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.LedgerTransaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec, currency)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions including the header row.
func WriteTransactions(w io.Writer, txns []model.LedgerTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends rows without a header.
func AppendTransactions(w io.Writer, txns []model.LedgerTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a LedgerTransaction to a CSV row.
func MarshalTransaction(txn model.LedgerTransaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colAmount] = txn.Amount.Format()
	row[colCategory] = txn.CategoryName
	row[colSubcategory] = txn.SubcategoryName
	row[colRecipient] = txn.Recipient
	row[colDesc] = txn.Description
	row[colTags] = txn.Tags
	return row
}

// UnmarshalTransaction converts a CSV row to a LedgerTransaction.
func UnmarshalTransaction(record []string, currency string) (model.LedgerTransaction, error) {
	if len(record) != numFields {
		return model.LedgerTransaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := money.Parse(record[colAmount], currency)
	if err != nil {
		return model.LedgerTransaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.LedgerTransaction{
		ID:              record[colID],
		Date:            date,
		Amount:          amount,
		CategoryName:    record[colCategory],
		SubcategoryName: record[colSubcategory],
		Recipient:       record[colRecipient],
		Description:     record[colDesc],
		Tags:            record[colTags],
	}, nil
}

package model

import (
	"time"

	"github.com/recount-dev/recount/internal/money"
)

// ImportedTransaction is one successfully parsed bank statement CSV row.
// Immutable for the lifetime of a reconciliation run; Index identifies it.
type ImportedTransaction struct {
	Index              int          `json:"index"` // 0-based over parsed rows
	Date               time.Time    `json:"date"`
	RawDate            string       `json:"rawDate"`
	Kind               string       `json:"kind"` // bank transaction type (ACH_DEBIT, etc.)
	Amount             money.Money  `json:"amount"`
	RunningBalance     *money.Money `json:"runningBalance,omitempty"`
	Description        string       `json:"description"`
	SuggestedRecipient string       `json:"suggestedRecipient,omitempty"`
}

// LedgerTransaction is an immutable snapshot of a ledger row for the run.
type LedgerTransaction struct {
	ID              string      `json:"id"`
	Date            time.Time   `json:"date"`
	Amount          money.Money `json:"amount"`
	CategoryName    string      `json:"categoryName"`
	SubcategoryName string      `json:"subcategoryName"`
	Recipient       string      `json:"recipient,omitempty"`
	Description     string      `json:"description,omitempty"`
	Tags            string      `json:"tags,omitempty"` // semicolon-separated
}

package model

import (
	"time"

	"github.com/recount-dev/recount/internal/money"
)

// ValidationRecord is the persisted outcome snapshot of one completed
// reconciliation session. Emitted exactly once per Complete call.
type ValidationRecord struct {
	RecordID        string      `json:"recordId,omitempty"` // assigned on persistence
	RunID           string      `json:"runId"`
	AccountID       string      `json:"accountId"`
	ValidationDate  time.Time   `json:"validationDate"`
	AssertedBalance money.Money `json:"assertedBalance"`
	MatchedCount    int         `json:"matchedCount"`
	AddedCount      int         `json:"addedCount"`
	FlaggedCount    int         `json:"flaggedCount"`
}

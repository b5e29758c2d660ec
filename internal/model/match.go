package model

// Match pairs one imported row with one ledger row. Valid only when both
// amounts are identical and the dates fall within the matcher's tolerance.
// Across a result set each ImportedIndex and each LedgerID appears at most
// once.
type Match struct {
	ImportedIndex  int    `json:"importedIndex"`
	LedgerID       string `json:"ledgerId"`
	DateMismatch   bool   `json:"dateMismatch"`
	DaysDifference int    `json:"daysDifference"` // ledger date minus imported date
}

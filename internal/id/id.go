package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatValidationID returns a validation record ID like "VAL-2025-01-001".
func FormatValidationID(year, month, seq int) string {
	return fmt.Sprintf("VAL-%04d-%02d-%03d", year, month, seq)
}

// ParseValidationID parses "VAL-2025-01-001" into year, month, seq.
func ParseValidationID(id string) (year, month, seq int, err error) {
	rest, ok := strings.CutPrefix(id, "VAL-")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid validation ID format: %q", id)
	}

	parts := strings.SplitN(rest, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid validation ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in validation ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in validation ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in validation ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// FormatLedgerID returns a ledger transaction ID like "L-000042". Zero
// padding keeps lexicographic order aligned with assignment order.
func FormatLedgerID(seq int) string {
	return fmt.Sprintf("L-%06d", seq)
}

// ParseLedgerSeq parses "L-000042" into its sequence number.
func ParseLedgerSeq(id string) (int, error) {
	rest, ok := strings.CutPrefix(id, "L-")
	if !ok {
		return 0, fmt.Errorf("invalid ledger ID format: %q", id)
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in ledger ID %q: %w", id, err)
	}
	return seq, nil
}

package ledgerfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCSVRoundTrip(t *testing.T) {
	txns := []model.LedgerTransaction{
		{
			ID:              "L-000001",
			Date:            date(2024, 1, 5),
			Amount:          money.New(-2500, "USD"),
			CategoryName:    "Software",
			SubcategoryName: "Tools",
			Recipient:       "GitHub",
			Description:     "monthly plan",
			Tags:            "subscription;dev",
		},
		{
			ID:     "L-000002",
			Date:   date(2024, 1, 10),
			Amount: money.New(10000, "USD"),
		},
	}

	var b strings.Builder
	require.NoError(t, WriteTransactions(&b, txns))

	got, err := ReadTransactions(strings.NewReader(b.String()), "USD")
	require.NoError(t, err)
	assert.Equal(t, txns, got)
}

func TestReadTransactions_BadRow(t *testing.T) {
	input := Header + "\nL-000001,not-a-date,-25.00,,,,,\n"
	_, err := ReadTransactions(strings.NewReader(input), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestStore_WindowFilter(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "USD")

	for _, d := range []time.Time{date(2024, 1, 5), date(2024, 1, 20), date(2024, 2, 3)} {
		_, err := store.AppendTransaction("checking", model.LedgerTransaction{
			Date:   d,
			Amount: money.New(-1000, "USD"),
		})
		require.NoError(t, err)
	}

	window, err := store.Transactions("checking", date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, date(2024, 1, 5), window[0].Date)
	assert.Equal(t, date(2024, 1, 20), window[1].Date)
}

func TestStore_AppendAssignsSequentialIDs(t *testing.T) {
	store := NewStore(t.TempDir(), "USD")

	first, err := store.AppendTransaction("checking", model.LedgerTransaction{
		Date: date(2024, 1, 5), Amount: money.New(-1000, "USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, "L-000001", first)

	second, err := store.AppendTransaction("checking", model.LedgerTransaction{
		Date: date(2024, 1, 6), Amount: money.New(-2000, "USD"),
	})
	require.NoError(t, err)
	assert.Equal(t, "L-000002", second)
}

func TestStore_MissingLedgerIsEmptyWindow(t *testing.T) {
	store := NewStore(t.TempDir(), "USD")

	window, err := store.Transactions("nope", date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Empty(t, window)
}

func TestStore_FlagForReview(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "USD")

	require.NoError(t, store.FlagForReview("L-000007", "not in statement"))
	require.NoError(t, store.FlagForReview("L-000009", "duplicate"))

	data, err := os.ReadFile(filepath.Join(root, "logs", "flags.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, flagHeader, lines[0])
	assert.Contains(t, lines[1], "L-000007")
	assert.Contains(t, lines[2], "duplicate")
}

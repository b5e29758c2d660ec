package statement

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recount-dev/recount/internal/money"
)

const header = "date,type,amount,balance,description\n"

func normalizeString(t *testing.T, csv string, opts Options) ([]string, []string) {
	t.Helper()
	txns, parseErrors, err := Normalize(strings.NewReader(csv), opts)
	require.NoError(t, err)
	var descs []string
	for _, txn := range txns {
		descs = append(descs, txn.Description)
	}
	return descs, parseErrors
}

func TestNormalize(t *testing.T) {
	input := header +
		"2024-01-05,ACH_DEBIT,-25.00,975.00,GITHUB INC\n" +
		"2024-01-10,DEPOSIT,100.00,1075.00,CLIENT PAYMENT\n"

	txns, parseErrors, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, txns, 2)

	assert.Equal(t, 0, txns[0].Index)
	assert.Equal(t, "2024-01-05", txns[0].RawDate)
	assert.Equal(t, "ACH_DEBIT", txns[0].Kind)
	assert.Equal(t, money.New(-2500, "USD"), txns[0].Amount)
	require.NotNil(t, txns[0].RunningBalance)
	assert.Equal(t, money.New(97500, "USD"), *txns[0].RunningBalance)
	assert.Equal(t, "GITHUB INC", txns[0].Description)

	assert.Equal(t, 1, txns[1].Index)
	assert.Equal(t, money.New(10000, "USD"), txns[1].Amount)
}

func TestNormalize_BadAmountSkipsRow(t *testing.T) {
	input := header +
		"2024-01-05,ACH_DEBIT,abc,,GARBAGE\n" +
		"2024-01-10,DEPOSIT,100.00,,CLIENT PAYMENT\n"

	txns, parseErrors, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, parseErrors, 1)
	assert.Contains(t, parseErrors[0], "row 1")
	assert.Contains(t, parseErrors[0], "abc")

	// Surviving rows get contiguous indexes starting at 0.
	require.Len(t, txns, 1)
	assert.Equal(t, 0, txns[0].Index)
	assert.Equal(t, "CLIENT PAYMENT", txns[0].Description)
}

func TestNormalize_BadDateSkipsRow(t *testing.T) {
	input := header +
		"not-a-date,ACH_DEBIT,-25.00,,X\n" +
		"2024-01-10,DEPOSIT,100.00,,Y\n" +
		"99/99/9999,FEE,-1.00,,Z\n"

	descs, parseErrors := normalizeString(t, input, Options{Currency: "USD"})
	assert.Equal(t, []string{"Y"}, descs)
	require.Len(t, parseErrors, 2)
	assert.Contains(t, parseErrors[0], "row 1")
	assert.Contains(t, parseErrors[1], "row 3")
}

func TestNormalize_BrokenQuotingSkipsRow(t *testing.T) {
	input := header +
		"2024-01-05,ACH_DEBIT,-25.00,,\"bad\n" +
		"2024-01-10,DEPOSIT,100.00,,CLIENT PAYMENT\n"

	txns, parseErrors, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, parseErrors, 1)
	assert.Contains(t, parseErrors[0], "row 1")

	// The stray quote must not eat the row after it.
	require.Len(t, txns, 1)
	assert.Equal(t, 0, txns[0].Index)
	assert.Equal(t, "CLIENT PAYMENT", txns[0].Description)
}

func TestNormalize_DateFormatOrder(t *testing.T) {
	input := header + "01/15/2024,DEPOSIT,10.00,,X\n"

	txns, parseErrors, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, txns, 1)
	assert.Equal(t, 2024, txns[0].Date.Year())
	assert.Equal(t, 1, int(txns[0].Date.Month()))
	assert.Equal(t, 15, txns[0].Date.Day())
}

func TestNormalize_NoBalanceColumn(t *testing.T) {
	input := "date,type,amount,description\n" +
		"2024-01-05,ACH_DEBIT,-25.00,GITHUB INC\n"

	txns, parseErrors, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Empty(t, parseErrors)
	require.Len(t, txns, 1)
	assert.Nil(t, txns[0].RunningBalance)
	assert.Equal(t, "GITHUB INC", txns[0].Description)
}

func TestNormalize_EmptyBalanceValue(t *testing.T) {
	input := header + "2024-01-05,ACH_DEBIT,-25.00,,GITHUB INC\n"

	txns, _, err := Normalize(strings.NewReader(input), Options{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Nil(t, txns[0].RunningBalance)
}

func TestNormalize_HeaderOnly(t *testing.T) {
	txns, parseErrors, err := Normalize(strings.NewReader(header), Options{Currency: "USD"})
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Empty(t, parseErrors)
}

// stubCategorizer returns a fixed suggestion or error.
type stubCategorizer struct {
	recipient string
	err       error
}

func (s *stubCategorizer) Suggest(string) (string, error) {
	return s.recipient, s.err
}

func TestNormalize_CategorizerSuggestion(t *testing.T) {
	input := header + "2024-01-05,ACH_DEBIT,-25.00,,GITHUB INC\n"

	txns, _, err := Normalize(strings.NewReader(input), Options{
		Currency:    "USD",
		Categorizer: &stubCategorizer{recipient: "GitHub"},
	})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GitHub", txns[0].SuggestedRecipient)
}

func TestNormalize_CategorizerFailureIsSwallowed(t *testing.T) {
	input := header + "2024-01-05,ACH_DEBIT,-25.00,,GITHUB INC\n"

	txns, _, err := Normalize(strings.NewReader(input), Options{
		Currency:    "USD",
		Categorizer: &stubCategorizer{err: errors.New("service down")},
	})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].SuggestedRecipient)
}

package reconcile

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recount-dev/recount/internal/matcher"
	"github.com/recount-dev/recount/internal/model"
	"github.com/recount-dev/recount/internal/money"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newTestService() *Service {
	return NewService(Params{
		Logger:   zerolog.Nop(),
		Currency: "USD",
		Matching: matcher.Options{ToleranceDays: 5},
	})
}

func ledgerWindow() []model.LedgerTransaction {
	return []model.LedgerTransaction{
		{ID: "L1", Date: date(2024, 1, 6), Amount: money.New(-2500, "USD")},
	}
}

const statementCSV = "date,type,amount,balance,description\n" +
	"2024-01-05,ACH_DEBIT,-25.00,975.00,GITHUB INC\n" +
	"2024-01-10,DEPOSIT,100.00,1075.00,CLIENT PAYMENT\n"

func TestRun(t *testing.T) {
	rep, err := newTestService().Run("checking", []byte(statementCSV), ledgerWindow())
	require.NoError(t, err)

	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "L1", rep.Matches[0].LedgerID)
	assert.True(t, rep.Matches[0].DateMismatch)
	assert.Equal(t, []int{1}, rep.MissingFromLedger)
	assert.Empty(t, rep.NotInImport)
	require.NotNil(t, rep.CSVEndingBalance)
	assert.Equal(t, int64(107500), rep.CSVEndingBalance.Units)
}

func TestRun_MissingAccount(t *testing.T) {
	_, err := newTestService().Run("", []byte(statementCSV), ledgerWindow())
	assert.ErrorIs(t, err, ErrMissingAccount)
}

func TestRun_EmptyStatement(t *testing.T) {
	svc := newTestService()

	_, err := svc.Run("checking", nil, ledgerWindow())
	assert.ErrorIs(t, err, ErrEmptyStatement)

	_, err = svc.Run("checking", []byte("  \n"), ledgerWindow())
	assert.ErrorIs(t, err, ErrEmptyStatement)

	// Header only, no data rows.
	_, err = svc.Run("checking", []byte("date,type,amount,balance,description\n"), ledgerWindow())
	assert.ErrorIs(t, err, ErrEmptyStatement)
}

func TestRun_EmptyLedger(t *testing.T) {
	_, err := newTestService().Run("checking", []byte(statementCSV), nil)
	assert.ErrorIs(t, err, ErrEmptyLedger)
}

func TestRun_ParseErrorsDoNotFailRun(t *testing.T) {
	csv := "date,type,amount,balance,description\n" +
		"2024-01-05,ACH_DEBIT,abc,,BROKEN\n" +
		"2024-01-06,ACH_DEBIT,-25.00,,GITHUB INC\n"

	rep, err := newTestService().Run("checking", []byte(csv), ledgerWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.ParseErrorCount)
	assert.Equal(t, 1, rep.Summary.MatchedCount)
}

func TestRun_AllRowsBadStillReports(t *testing.T) {
	csv := "date,type,amount,balance,description\n" +
		"garbage,ACH_DEBIT,abc,,BROKEN\n"

	rep, err := newTestService().Run("checking", []byte(csv), ledgerWindow())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Summary.TotalImported)
	assert.Equal(t, 1, rep.Summary.ParseErrorCount)
	assert.Equal(t, []string{"L1"}, rep.NotInImport)
}

// stubSource returns a fixed window.
type stubSource struct {
	txns []model.LedgerTransaction
	err  error
}

func (s *stubSource) Transactions(string, time.Time, time.Time) ([]model.LedgerTransaction, error) {
	return s.txns, s.err
}

func TestRunFromSource(t *testing.T) {
	src := &stubSource{txns: ledgerWindow()}
	rep, err := newTestService().RunFromSource(src, "checking", []byte(statementCSV), date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.MatchedCount)
}

func TestRunFromSource_EmptyWindow(t *testing.T) {
	_, err := newTestService().RunFromSource(&stubSource{}, "checking", []byte(statementCSV), date(2024, 1, 1), date(2024, 1, 31))
	assert.ErrorIs(t, err, ErrEmptyLedger)
}

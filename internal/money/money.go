package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer minor units (cents for most currencies).
// All arithmetic happens on the integer representation; decimal text only
// appears at the Parse/Format boundary.
type Money struct {
	Units    int64  `json:"units"`
	Currency string `json:"currency"`
}

// zeroDecimalCurrencies have no minor unit (1 JPY is the smallest amount).
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// Exponent returns the number of minor-unit digits for a currency code.
func Exponent(currency string) int32 {
	if zeroDecimalCurrencies[currency] {
		return 0
	}
	return 2
}

// New creates a Money from minor units.
func New(units int64, currency string) Money {
	return Money{Units: units, Currency: currency}
}

// Parse converts decimal text like "1234.56" into Money. Strings with more
// decimal places than the currency carries are rejected; within that
// precision the value rounds half away from zero to the nearest minor unit.
func Parse(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	exp := Exponent(currency)
	if -d.Exponent() > exp {
		scaled := d.Shift(exp)
		if !scaled.Equal(scaled.Truncate(0)) {
			return Money{}, fmt.Errorf("amount %q has more than %d decimal places", s, exp)
		}
	}

	// decimal.Round rounds half away from zero.
	units := d.Shift(exp).Round(0).IntPart()
	return Money{Units: units, Currency: currency}, nil
}

// MustParse is Parse that panics; for tests and static tables.
func MustParse(s, currency string) Money {
	m, err := Parse(s, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + o. Both sides must share a currency; single-currency runs
// are enforced at the parse boundary.
func (m Money) Add(o Money) Money {
	return Money{Units: m.Units + o.Units, Currency: m.Currency}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Units: m.Units - o.Units, Currency: m.Currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Units < 0 {
		return Money{Units: -m.Units, Currency: m.Currency}
	}
	return m
}

// Neg returns the negation.
func (m Money) Neg() Money {
	return Money{Units: -m.Units, Currency: m.Currency}
}

// Equal reports whether two amounts have the same sign, magnitude and currency.
func (m Money) Equal(o Money) bool {
	return m.Units == o.Units && m.Currency == o.Currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Units == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Units < 0
}

// PercentOf returns num as a percentage of den, rounded to one decimal
// place. Display only; never feed the result back into monetary math.
// A zero denominator yields 0.
func PercentOf(num, den Money) float64 {
	if den.Units == 0 {
		return 0
	}
	pct := decimal.NewFromInt(num.Units).
		Div(decimal.NewFromInt(den.Units)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	f, _ := pct.Float64()
	return f
}

// Format renders the amount as fixed-point decimal text, e.g. "-12.50".
func (m Money) Format() string {
	exp := Exponent(m.Currency)
	return decimal.New(m.Units, -exp).StringFixed(exp)
}

// String implements fmt.Stringer as "<amount> <currency>".
func (m Money) String() string {
	return m.Format() + " " + m.Currency
}

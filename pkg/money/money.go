// Package money holds the rounding and rate conventions shared by every
// monetary computation in the service. Amounts are shopspring decimals kept at
// two decimal places; rates are annual percentages (3.75 means 3.75%).
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places every monetary amount is rounded to.
const Scale = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Round rounds d to cents, half away from zero. For the non-negative amounts
// the service works with this is the usual half-up rule.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// MonthlyRate converts an annual percentage rate into a monthly fractional rate
// (annual / 100 / 12). The result is not rounded.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.Div(hundred).Div(twelve)
}

// Parse parses a decimal amount string and rounds it to cents.
func Parse(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Round(d), nil
}

// MustParse is Parse for literals in tests and package-level variables.
func MustParse(amount string) decimal.Decimal {
	d, err := Parse(amount)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders d with exactly two decimal places, e.g. "1500.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// CeilMonths divides amount by perMonth and rounds up to a whole number of
// months. A non-positive divisor yields zero.
func CeilMonths(amount, perMonth decimal.Decimal) int {
	if !perMonth.IsPositive() {
		return 0
	}
	return int(amount.Div(perMonth).Ceil().IntPart())
}

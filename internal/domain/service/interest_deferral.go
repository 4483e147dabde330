package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/pkg/money"
)

var two = decimal.NewFromInt(2)

// InterestDeferralCalculator prices the interest cost of deferring payments.
// Rates are annual percentages.
type InterestDeferralCalculator struct{}

// NewInterestDeferralCalculator returns a new calculator.
func NewInterestDeferralCalculator() *InterestDeferralCalculator {
	return &InterestDeferralCalculator{}
}

// SingleMonth returns round2(approved * annualRate/100/12), the interest on one
// month's deferred amount.
func (c *InterestDeferralCalculator) SingleMonth(approved, annualRate decimal.Decimal) decimal.Decimal {
	return money.Round(approved.Mul(money.MonthlyRate(annualRate)))
}

// MultiMonth returns the interest on reduction*durationMonths deferred over
// the remaining term. The balance amortizes linearly, hence the halving.
func (c *InterestDeferralCalculator) MultiMonth(
	reduction decimal.Decimal,
	durationMonths int,
	annualRate decimal.Decimal,
	remainingTermMonths int,
) decimal.Decimal {
	deferred := reduction.Mul(decimal.NewFromInt(int64(durationMonths)))
	return money.Round(deferred.
		Mul(money.MonthlyRate(annualRate)).
		Mul(decimal.NewFromInt(int64(remainingTermMonths))).
		Div(two))
}

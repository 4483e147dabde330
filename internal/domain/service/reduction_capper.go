package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/pkg/money"
)

var (
	maxReductionShare = decimal.RequireFromString("0.30")
	highRiskFactor    = decimal.RequireFromString("0.5")
)

// ReductionCapper clamps requested reductions to the payment policy ceiling.
type ReductionCapper struct{}

// NewReductionCapper returns a new capper.
func NewReductionCapper() *ReductionCapper {
	return &ReductionCapper{}
}

// MaxReduction returns the largest reduction allowed against the user's first
// active mortgage: 30% of its monthly payment, halved for high-risk users.
// Without an active mortgage the ceiling is zero.
//
// The base ceiling is rounded half-up to cents. The high-risk ceiling is
// truncated to cents instead, so it never exceeds 15% of the payment.
func (c *ReductionCapper) MaxReduction(mortgages []model.Mortgage, isHighRisk bool) decimal.Decimal {
	m, ok := model.FirstActive(mortgages)
	if !ok {
		return decimal.Zero
	}

	limit := m.MonthlyPayment().Mul(maxReductionShare)
	if isHighRisk {
		return limit.Mul(highRiskFactor).Truncate(money.Scale)
	}
	return money.Round(limit)
}

// Cap returns min(requested, MaxReduction).
func (c *ReductionCapper) Cap(mortgages []model.Mortgage, requested decimal.Decimal, isHighRisk bool) decimal.Decimal {
	return money.Min(requested, c.MaxReduction(mortgages, isHighRisk))
}

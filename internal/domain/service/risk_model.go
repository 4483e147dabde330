package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// ---------------------------------------------------------------------------
// RiskModel – linear scoring over a stored financial profile
// ---------------------------------------------------------------------------

const (
	highStressThreshold     = 0.7
	careerTransitionDTI     = 50
	maxCreditScore          = 850.0
	minCreditScore          = 300.0
	reductionIncomeFraction = 0.1
	impactInterestFactor    = "0.05"
)

// FinancialInsights summarises a profile for the insights endpoint.
type FinancialInsights struct {
	DebtToIncomeRatio decimal.Decimal
	CreditScore       int
	StabilityScore    float64
	PaymentDifficulty float64
	FlexibilityScore  float64
}

// LongTermImpact estimates what a reduction costs over the life of the loan.
type LongTermImpact struct {
	AdditionalInterestProjection decimal.Decimal
	ExtendedLoanTermMonths       int
	RiskMitigationScore          float64
}

// RiskModel scores a profile on debt-to-income ratio and credit score. Every
// method is a pure function of the profile.
type RiskModel struct{}

// NewRiskModel returns a new model.
func NewRiskModel() *RiskModel {
	return &RiskModel{}
}

// StressScore returns min(1, dti/100*0.6 + (850-credit)/850*0.4).
func (r *RiskModel) StressScore(p model.FinancialProfile) float64 {
	dti := p.DebtToIncomeRatio().InexactFloat64() / 100.0
	credit := (maxCreditScore - float64(p.CreditScore())) / maxCreditScore
	return math.Min(1.0, dti*0.6+credit*0.4)
}

// IsHighStress reports whether the stress score exceeds 0.7.
func (r *RiskModel) IsHighStress(p model.FinancialProfile) bool {
	return r.StressScore(p) > highStressThreshold
}

// PaymentDifficulty estimates the probability of payment trouble in [0,1].
// It uses the same blend as StressScore.
func (r *RiskModel) PaymentDifficulty(p model.FinancialProfile) float64 {
	return r.StressScore(p)
}

// PressureTypes infers hardship categories from the profile. A debt-to-income
// ratio above 50% is read as a career transition.
func (r *RiskModel) PressureTypes(p model.FinancialProfile) []valueobject.PressureType {
	types := []valueobject.PressureType{}
	if p.DebtToIncomeRatio().GreaterThan(decimal.NewFromInt(careerTransitionDTI)) {
		types = append(types, valueobject.PressureTypeCareerTransition)
	}
	return types
}

// RecommendedReduction returns round2(annualIncome * difficulty * 0.1 / 12).
func (r *RiskModel) RecommendedReduction(p model.FinancialProfile) decimal.Decimal {
	factor := decimal.NewFromFloat(r.PaymentDifficulty(p) * reductionIncomeFraction)
	return money.Round(p.TotalAnnualIncome().Mul(factor).Div(twelve))
}

// FlexibilityScore blends credit score, debt load and stability into a
// rough measure of how much payment flexibility the user can absorb.
func (r *RiskModel) FlexibilityScore(p model.FinancialProfile) float64 {
	credit := (float64(p.CreditScore()) - minCreditScore) / (maxCreditScore - minCreditScore)
	debt := 1 - math.Min(1, p.DebtToIncomeRatio().InexactFloat64()/careerTransitionDTI)
	stability := p.StabilityScore() / 100.0
	return credit*0.4 + debt*0.3 + stability*0.3
}

// Insights collects the headline figures for a profile.
func (r *RiskModel) Insights(p model.FinancialProfile) FinancialInsights {
	return FinancialInsights{
		DebtToIncomeRatio: p.DebtToIncomeRatio(),
		CreditScore:       p.CreditScore(),
		StabilityScore:    p.StabilityScore(),
		PaymentDifficulty: r.PaymentDifficulty(p),
		FlexibilityScore:  r.FlexibilityScore(p),
	}
}

// LongTermImpact projects 5% of the reduction as extra interest and one extra
// month of term per started 1000 of reduction.
func (r *RiskModel) LongTermImpact(p model.FinancialProfile, reduction decimal.Decimal) LongTermImpact {
	return LongTermImpact{
		AdditionalInterestProjection: money.Round(reduction.Mul(decimal.RequireFromString(impactInterestFactor))),
		ExtendedLoanTermMonths:       money.CeilMonths(reduction, monthsAddedBasis),
		RiskMitigationScore:          r.PaymentDifficulty(p),
	}
}

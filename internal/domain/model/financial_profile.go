package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// FinancialProfile is the read-only view of a customer's finances kept by the
// profile store. The debt-to-income ratio is a percentage (42.5 means 42.5%).
type FinancialProfile struct {
	userID             string
	totalAnnualIncome  decimal.Decimal
	creditScore        int
	debtToIncomeRatio  decimal.Decimal
	employmentStatus   valueobject.EmploymentStatus
	stabilityScore     float64
	lastAssessmentDate time.Time
}

// ReconstructFinancialProfile rebuilds a FinancialProfile from persistence.
func ReconstructFinancialProfile(
	userID string,
	totalAnnualIncome decimal.Decimal,
	creditScore int,
	debtToIncomeRatio decimal.Decimal,
	employmentStatus valueobject.EmploymentStatus,
	stabilityScore float64,
	lastAssessmentDate time.Time,
) FinancialProfile {
	return FinancialProfile{
		userID:             userID,
		totalAnnualIncome:  totalAnnualIncome,
		creditScore:        creditScore,
		debtToIncomeRatio:  debtToIncomeRatio,
		employmentStatus:   employmentStatus,
		stabilityScore:     stabilityScore,
		lastAssessmentDate: lastAssessmentDate,
	}
}

func (p FinancialProfile) UserID() string                                 { return p.userID }
func (p FinancialProfile) TotalAnnualIncome() decimal.Decimal             { return p.totalAnnualIncome }
func (p FinancialProfile) CreditScore() int                               { return p.creditScore }
func (p FinancialProfile) DebtToIncomeRatio() decimal.Decimal             { return p.debtToIncomeRatio }
func (p FinancialProfile) EmploymentStatus() valueobject.EmploymentStatus { return p.employmentStatus }
func (p FinancialProfile) StabilityScore() float64                        { return p.stabilityScore }
func (p FinancialProfile) LastAssessmentDate() time.Time                  { return p.lastAssessmentDate }

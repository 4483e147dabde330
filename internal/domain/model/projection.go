package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyProjection is one month of a projected repayment schedule. It is
// derived on demand and never persisted.
type MonthlyProjection struct {
	Month            time.Time
	ProjectedPayment decimal.Decimal
	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
}

// RepaymentBreakdown describes how an approved adjustment plays out over the
// remaining life of the mortgage.
type RepaymentBreakdown struct {
	RemainingPrincipal          decimal.Decimal
	TotalInterestImpact         decimal.Decimal
	ProjectedLoanCompletionDate time.Time
	AdditionalMonths            int
	MonthlyProjections          []MonthlyProjection
}

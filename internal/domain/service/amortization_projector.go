package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// RecoveryMonths is the length of the catch-up phase that follows every
// reduced-payment period.
const RecoveryMonths = 3

var (
	twelve           = decimal.NewFromInt(12)
	monthsAddedBasis = decimal.NewFromInt(1000)
)

// AmortizationProjector produces month-by-month repayment projections with a
// principal/interest split on a running balance.
type AmortizationProjector struct{}

// NewAmortizationProjector returns a new projector.
func NewAmortizationProjector() *AmortizationProjector {
	return &AmortizationProjector{}
}

// Project runs the two-phase schedule: durationMonths at adjustedPayment, then
// RecoveryMonths at recoveryPayment, starting from the mortgage's current
// balance.
//
// Phase one floors the principal portion at zero when interest exceeds the
// payment. The recovery phase applies no floor, so a recovery payment smaller
// than the interest due yields a negative principal portion and grows the
// balance.
func (p *AmortizationProjector) Project(
	m model.Mortgage,
	start time.Time,
	durationMonths int,
	adjustedPayment, recoveryPayment decimal.Decimal,
) []model.MonthlyProjection {
	rate := money.MonthlyRate(m.InterestRate())
	balance := m.CurrentBalance()
	out := make([]model.MonthlyProjection, 0, durationMonths+RecoveryMonths)

	for i := 0; i < durationMonths; i++ {
		var row model.MonthlyProjection
		row, balance = projectMonth(model.AddMonths(start, i), balance, rate, adjustedPayment, true)
		out = append(out, row)
	}
	for j := 0; j < RecoveryMonths; j++ {
		var row model.MonthlyProjection
		row, balance = projectMonth(model.AddMonths(start, durationMonths+j), balance, rate, recoveryPayment, false)
		out = append(out, row)
	}
	return out
}

// RecoveryPayment spreads the total deferred amount over twelve months on top
// of the original payment: round2(original + reduction*duration/12).
func (p *AmortizationProjector) RecoveryPayment(original, reduction decimal.Decimal, durationMonths int) decimal.Decimal {
	deferred := reduction.Mul(decimal.NewFromInt(int64(durationMonths)))
	return money.Round(original.Add(deferred.Div(twelve)))
}

// Breakdown describes an approved adjustment for the process response. The
// attached projection covers RecoveryMonths at the original payment from the
// repayment start date.
func (p *AmortizationProjector) Breakdown(
	m model.Mortgage,
	adjustmentMonth, repaymentStart time.Time,
	approvedReduction, totalInterestImpact decimal.Decimal,
) model.RepaymentBreakdown {
	rate := money.MonthlyRate(m.InterestRate())
	balance := m.CurrentBalance()
	rows := make([]model.MonthlyProjection, 0, RecoveryMonths)
	for i := 0; i < RecoveryMonths; i++ {
		var row model.MonthlyProjection
		row, balance = projectMonth(model.AddMonths(repaymentStart, i), balance, rate, m.MonthlyPayment(), true)
		rows = append(rows, row)
	}

	added := money.CeilMonths(approvedReduction, monthsAddedBasis)
	return model.RepaymentBreakdown{
		RemainingPrincipal:          m.CurrentBalance(),
		TotalInterestImpact:         totalInterestImpact,
		ProjectedLoanCompletionDate: model.AddMonths(adjustmentMonth, m.RemainingTermMonths()+added),
		AdditionalMonths:            added,
		MonthlyProjections:          rows,
	}
}

func projectMonth(
	month time.Time,
	balance, rate, payment decimal.Decimal,
	floorPrincipal bool,
) (model.MonthlyProjection, decimal.Decimal) {
	interest := money.Round(balance.Mul(rate))
	principal := payment.Sub(interest)
	if floorPrincipal && principal.IsNegative() {
		principal = decimal.Zero
	}
	return model.MonthlyProjection{
		Month:            month,
		ProjectedPayment: payment,
		PrincipalPortion: principal,
		InterestPortion:  interest,
	}, balance.Sub(principal)
}

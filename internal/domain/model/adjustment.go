package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Adjustment aggregate
// ---------------------------------------------------------------------------

// Adjustment records a decided payment reduction for one mortgage. It is
// immutable once created; the only permitted change is deletion through
// cancellation while the record is still PENDING_REVIEW.
type Adjustment struct {
	id                     string
	mortgageID             string
	createdAt              time.Time
	originalMonthlyPayment decimal.Decimal
	reducedPayment         decimal.Decimal
	additionalInterest     decimal.Decimal
	status                 valueobject.AdjustmentStatus
	adjustmentMonth        time.Time
	repaymentStartDate     time.Time
	reason                 string
	pressureType           valueobject.PressureType
	riskScore              float64
}

// NewAdjustment builds a record for an approved reduction. The reduced payment
// is derived as original - approved and the recovery phase starts one month
// after the adjustment month.
func NewAdjustment(
	id, mortgageID string,
	originalMonthlyPayment, approvedReduction, additionalInterest decimal.Decimal,
	status valueobject.AdjustmentStatus,
	adjustmentMonth time.Time,
	reason string,
	pressureType valueobject.PressureType,
	riskScore float64,
	now time.Time,
) (Adjustment, error) {
	if id == "" {
		return Adjustment{}, errors.New("adjustment ID is required")
	}
	if mortgageID == "" {
		return Adjustment{}, errors.New("mortgage ID is required")
	}
	if status.IsZero() {
		return Adjustment{}, errors.New("status is required")
	}
	if approvedReduction.IsNegative() {
		return Adjustment{}, fmt.Errorf("approved reduction must not be negative, got %s", approvedReduction)
	}
	if adjustmentMonth.IsZero() {
		return Adjustment{}, errors.New("adjustment month is required")
	}

	return Adjustment{
		id:                     id,
		mortgageID:             mortgageID,
		createdAt:              now,
		originalMonthlyPayment: originalMonthlyPayment,
		reducedPayment:         originalMonthlyPayment.Sub(approvedReduction),
		additionalInterest:     additionalInterest,
		status:                 status,
		adjustmentMonth:        adjustmentMonth,
		repaymentStartDate:     AddMonths(adjustmentMonth, 1),
		reason:                 reason,
		pressureType:           pressureType,
		riskScore:              riskScore,
	}, nil
}

// ReconstructAdjustment rebuilds an Adjustment from persistence.
func ReconstructAdjustment(
	id, mortgageID string,
	createdAt time.Time,
	originalMonthlyPayment, reducedPayment, additionalInterest decimal.Decimal,
	status valueobject.AdjustmentStatus,
	adjustmentMonth, repaymentStartDate time.Time,
	reason string,
	pressureType valueobject.PressureType,
	riskScore float64,
) Adjustment {
	return Adjustment{
		id:                     id,
		mortgageID:             mortgageID,
		createdAt:              createdAt,
		originalMonthlyPayment: originalMonthlyPayment,
		reducedPayment:         reducedPayment,
		additionalInterest:     additionalInterest,
		status:                 status,
		adjustmentMonth:        adjustmentMonth,
		repaymentStartDate:     repaymentStartDate,
		reason:                 reason,
		pressureType:           pressureType,
		riskScore:              riskScore,
	}
}

// EnsureCancellable returns ErrInvalidStatusTransition unless the record is
// still awaiting review.
func (a Adjustment) EnsureCancellable() error {
	if !a.status.IsCancellable() {
		return fmt.Errorf("cannot cancel adjustment %s in status %s: %w",
			a.id, a.status, valueobject.ErrInvalidStatusTransition)
	}
	return nil
}

// ApprovedReduction re-derives the approved amount from the stored payments.
func (a Adjustment) ApprovedReduction() decimal.Decimal {
	return a.originalMonthlyPayment.Sub(a.reducedPayment)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a Adjustment) ID() string                              { return a.id }
func (a Adjustment) MortgageID() string                      { return a.mortgageID }
func (a Adjustment) CreatedAt() time.Time                    { return a.createdAt }
func (a Adjustment) OriginalMonthlyPayment() decimal.Decimal { return a.originalMonthlyPayment }
func (a Adjustment) ReducedPayment() decimal.Decimal         { return a.reducedPayment }
func (a Adjustment) AdditionalInterest() decimal.Decimal     { return a.additionalInterest }
func (a Adjustment) Status() valueobject.AdjustmentStatus    { return a.status }
func (a Adjustment) AdjustmentMonth() time.Time              { return a.adjustmentMonth }
func (a Adjustment) RepaymentStartDate() time.Time           { return a.repaymentStartDate }
func (a Adjustment) Reason() string                          { return a.reason }
func (a Adjustment) PressureType() valueobject.PressureType  { return a.pressureType }
func (a Adjustment) RiskScore() float64                      { return a.riskScore }

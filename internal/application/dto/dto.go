package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ProcessAdjustmentRequest asks for a temporary reduction of a mortgage's
// monthly payment.
type ProcessAdjustmentRequest struct {
	UserID                     string                        `json:"user_id" validate:"required,user_id"`
	MortgageAccountNumber      string                        `json:"mortgage_account_number" validate:"required,mortgage_account"`
	ReductionAmount            decimal.Decimal               `json:"reduction_amount" validate:"dec_min=100,dec_max=10000"`
	AdjustmentMonth            Date                          `json:"adjustment_month" validate:"future_date"`
	Reason                     string                        `json:"reason,omitempty" validate:"max=500"`
	PressureType               valueobject.PressureType      `json:"pressure_type,omitzero"`
	RepaymentStrategy          valueobject.RepaymentStrategy `json:"repayment_strategy,omitzero"`
	HasSupportingDocumentation bool                          `json:"has_supporting_documentation,omitempty"`
}

// CheckEligibilityRequest identifies the user to evaluate.
type CheckEligibilityRequest struct {
	UserID string `json:"user_id" validate:"required,user_id"`
}

// AdjustmentHistoryRequest selects a user's adjustments. Both bounds are
// inclusive calendar dates; Status optionally narrows the result.
type AdjustmentHistoryRequest struct {
	UserID   string                       `json:"user_id" validate:"required,user_id"`
	FromDate Date                         `json:"from_date"`
	ToDate   Date                         `json:"to_date"`
	Status   valueobject.AdjustmentStatus `json:"status,omitzero"`
}

// RecommendationRequest identifies the user to advise.
type RecommendationRequest struct {
	UserID string `json:"user_id" validate:"required,user_id"`
}

// SimulationRequest describes a hypothetical adjustment. Nothing is stored.
type SimulationRequest struct {
	UserID                  string                        `json:"user_id" validate:"required,user_id"`
	MortgageAccountNumber   string                        `json:"mortgage_account_number" validate:"required,mortgage_account"`
	ProposedReductionAmount decimal.Decimal               `json:"proposed_reduction_amount" validate:"dec_positive"`
	ProposedStartDate       Date                          `json:"proposed_start_date" validate:"future_date"`
	DurationMonths          int                           `json:"duration_months" validate:"min=1,max=12"`
	RepaymentStrategy       valueobject.RepaymentStrategy `json:"repayment_strategy,omitzero"`
}

// CancelAdjustmentRequest identifies the adjustment to withdraw.
type CancelAdjustmentRequest struct {
	AdjustmentID string `json:"adjustment_id" validate:"required"`
}

// FinancialInsightsRequest identifies the user whose profile is summarised.
type FinancialInsightsRequest struct {
	UserID string `json:"user_id" validate:"required,user_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AdjustmentResponse describes a processed or stored adjustment.
type AdjustmentResponse struct {
	AdjustmentID            string                       `json:"adjustment_id,omitempty"`
	UserID                  string                       `json:"user_id"`
	MortgageAccountNumber   string                       `json:"mortgage_account_number"`
	OriginalMonthlyPayment  decimal.Decimal              `json:"original_monthly_payment"`
	ApprovedReductionAmount decimal.Decimal              `json:"approved_reduction_amount"`
	AdjustedMonthlyPayment  decimal.Decimal              `json:"adjusted_monthly_payment"`
	AdditionalInterest      decimal.Decimal              `json:"additional_interest"`
	Status                  valueobject.AdjustmentStatus `json:"status"`
	StatusDescription       string                       `json:"status_description,omitempty"`
	RequestTimestamp        time.Time                    `json:"request_timestamp"`
	AdjustmentMonth         Date                         `json:"adjustment_month"`
	RepaymentScheduleStart  Date                         `json:"repayment_schedule_start"`
	ProjectedAdditionalCost decimal.Decimal              `json:"projected_additional_cost"`
	RiskAssessmentScore     float64                      `json:"risk_assessment_score"`
	RecommendedActions      []string                     `json:"recommended_actions,omitempty"`
	RepaymentBreakdown      *RepaymentBreakdownResponse  `json:"repayment_breakdown,omitempty"`
}

// RepaymentBreakdownResponse details how an adjustment is paid back.
type RepaymentBreakdownResponse struct {
	RemainingPrincipal          decimal.Decimal             `json:"remaining_principal"`
	TotalInterestImpact         decimal.Decimal             `json:"total_interest_impact"`
	ProjectedLoanCompletionDate Date                        `json:"projected_loan_completion_date"`
	AdditionalMonths            int                         `json:"additional_months"`
	MonthlyProjections          []MonthlyProjectionResponse `json:"monthly_projections"`
}

// MonthlyProjectionResponse is one projected month.
type MonthlyProjectionResponse struct {
	Month            Date            `json:"month"`
	ProjectedPayment decimal.Decimal `json:"projected_payment"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
}

// EligibilityResponse reports whether a user may request an adjustment.
type EligibilityResponse struct {
	UserID   string `json:"user_id"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason"`
}

// RecommendationResponse suggests an adjustment for the user's first active
// mortgage.
type RecommendationResponse struct {
	UserID                       string                        `json:"user_id"`
	MortgageAccountNumber        string                        `json:"mortgage_account_number"`
	RecommendedReductionAmount   decimal.Decimal               `json:"recommended_reduction_amount"`
	RecommendedDurationMonths    int                           `json:"recommended_duration_months"`
	DetectedPressureTypes        []valueobject.PressureType    `json:"detected_pressure_types"`
	FinancialRiskScore           float64                       `json:"financial_risk_score"`
	RecommendedRepaymentStrategy valueobject.RepaymentStrategy `json:"recommended_repayment_strategy"`
	ProjectedLoanTermImpact      int                           `json:"projected_loan_term_impact"`
}

// SimulationResponse is the outcome of a simulated adjustment.
type SimulationResponse struct {
	ProjectedAdjustedPayment     decimal.Decimal             `json:"projected_adjusted_payment"`
	TotalAdditionalInterest      decimal.Decimal             `json:"total_additional_interest"`
	ProjectedLoanTermImpact      int                         `json:"projected_loan_term_impact"`
	PostAdjustmentMonthlyPayment decimal.Decimal             `json:"post_adjustment_monthly_payment"`
	MonthlyProjections           []MonthlyProjectionResponse `json:"monthly_projections"`
	RiskAssessmentScore          float64                     `json:"risk_assessment_score"`
	EligibleForAdjustment        bool                        `json:"eligible_for_adjustment"`
	ImprovementSuggestions       []string                    `json:"improvement_suggestions"`
}

// FinancialInsightsResponse summarises a user's financial profile.
type FinancialInsightsResponse struct {
	UserID                  string                 `json:"user_id"`
	DebtToIncomeRatio       decimal.Decimal        `json:"debt_to_income_ratio"`
	CreditScore             int                    `json:"credit_score"`
	FinancialStabilityScore float64                `json:"financial_stability_score"`
	PaymentDifficulty       float64                `json:"payment_difficulty"`
	FlexibilityScore        float64                `json:"flexibility_score"`
	RecommendedReduction    decimal.Decimal        `json:"recommended_reduction"`
	LongTermImpact          LongTermImpactResponse `json:"long_term_impact"`
}

// LongTermImpactResponse projects what the recommended reduction costs over
// the life of the loan.
type LongTermImpactResponse struct {
	AdditionalInterestProjection decimal.Decimal `json:"additional_interest_projection"`
	ExtendedLoanTermMonths       int             `json:"extended_loan_term_months"`
	RiskMitigationScore          float64         `json:"risk_mitigation_score"`
}

package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// Status descriptions attached to process responses.
const (
	DescriptionNotEligible = "User not eligible for mortgage adjustment"
	DescriptionHighRisk    = "Reduced adjustment due to high financial risk"
	DescriptionRejected    = "Adjustment request rejected due to eligibility criteria"
	DescriptionProcessed   = "Mortgage adjustment processed successfully"
)

// DefaultStabilityScore stands in for users without a financial profile.
const DefaultStabilityScore = 0.5

var largeReductionThreshold = decimal.NewFromInt(2000)

var pressureAdvice = map[valueobject.PressureType]string{
	valueobject.PressureTypeEducation:        "Explore student aid or employer education assistance programs",
	valueobject.PressureTypeMedicalExpenses:  "Ask your healthcare providers about payment plans and review your insurance coverage",
	valueobject.PressureTypeHomeRepairs:      "Check whether the repairs are covered by your homeowner's insurance",
	valueobject.PressureTypeFamilyEmergency:  "Contact us early if the emergency extends beyond the adjustment period",
	valueobject.PressureTypeCareerTransition: "Update your employment details once your new income is confirmed",
}

// AdjustmentAdvisor owns status decisions and the advice attached to
// responses.
type AdjustmentAdvisor struct{}

// NewAdjustmentAdvisor returns a new advisor.
func NewAdjustmentAdvisor() *AdjustmentAdvisor {
	return &AdjustmentAdvisor{}
}

// DecideStatus maps the approved amount to an outcome: the full request is
// APPROVED, a positive partial amount is PARTIALLY_APPROVED, anything else
// is REJECTED.
func (a *AdjustmentAdvisor) DecideStatus(approved, requested decimal.Decimal) valueobject.AdjustmentStatus {
	switch {
	case approved.Equal(requested) && approved.IsPositive():
		return valueobject.AdjustmentStatusApproved
	case approved.IsPositive():
		return valueobject.AdjustmentStatusPartiallyApproved
	default:
		return valueobject.AdjustmentStatusRejected
	}
}

// StatusDescription explains a processed request.
func (a *AdjustmentAdvisor) StatusDescription(approved decimal.Decimal, isHighRisk bool) string {
	switch {
	case isHighRisk:
		return DescriptionHighRisk
	case approved.IsZero():
		return DescriptionRejected
	default:
		return DescriptionProcessed
	}
}

// RecommendedActions returns advice tiered on the risk score, followed by
// advice for the stated pressure type if any.
func (a *AdjustmentAdvisor) RecommendedActions(riskScore float64, pressure valueobject.PressureType) []string {
	var actions []string
	switch {
	case riskScore > 0.7:
		actions = append(actions,
			"Schedule a consultation with a financial advisor",
			"Consider refinancing to lower your regular monthly payment",
		)
	case riskScore > 0.4:
		actions = append(actions,
			"Build an emergency fund covering at least three monthly payments",
			"Monitor your budget closely during the adjustment period",
		)
	default:
		actions = append(actions,
			"Resume regular payments as planned after the adjustment period",
		)
	}

	if advice, ok := pressureAdvice[pressure]; ok {
		actions = append(actions, advice)
	}
	return actions
}

// ImprovementSuggestions returns hints for making a simulated adjustment
// cheaper or safer.
func (a *AdjustmentAdvisor) ImprovementSuggestions(durationMonths int, reduction decimal.Decimal, riskScore float64) []string {
	suggestions := []string{}
	if durationMonths > 4 {
		suggestions = append(suggestions, "Consider shortening the adjustment period to reduce additional interest")
	}
	if reduction.GreaterThan(largeReductionThreshold) {
		suggestions = append(suggestions, "Consider requesting a smaller reduction to keep the recovery payment manageable")
	}
	if riskScore > 0.7 {
		suggestions = append(suggestions, "Consider refinancing or a shorter adjustment period given your current risk profile")
	}
	return suggestions
}

// RecommendedDuration maps payment difficulty to an adjustment length.
func (a *AdjustmentAdvisor) RecommendedDuration(difficulty float64) int {
	switch {
	case difficulty > 0.8:
		return 6
	case difficulty > 0.5:
		return 4
	case difficulty > 0.3:
		return 3
	default:
		return 2
	}
}

// RecommendedStrategy maps a stability score to a repayment strategy.
func (a *AdjustmentAdvisor) RecommendedStrategy(stability float64) valueobject.RepaymentStrategy {
	switch {
	case stability > 0.7:
		return valueobject.RepaymentStrategyFrontLoaded
	case stability > 0.4:
		return valueobject.RepaymentStrategySpreadEvenly
	default:
		return valueobject.RepaymentStrategyBackLoaded
	}
}

// LoanTermImpact is a coarse estimate of the months an adjustment adds to
// the loan: ceil(amount * duration / 1000).
func (a *AdjustmentAdvisor) LoanTermImpact(amount decimal.Decimal, durationMonths int) int {
	return money.CeilMonths(amount.Mul(decimal.NewFromInt(int64(durationMonths))), monthsAddedBasis)
}

package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
)

// ---------------------------------------------------------------------------
// EligibilityEvaluator – decides whether a user may receive an adjustment
// ---------------------------------------------------------------------------

const (
	// MaxAdjustmentsPerYear is the number of adjustments a single mortgage may
	// accumulate within the trailing year before its owner becomes ineligible.
	MaxAdjustmentsPerYear = 4

	minRemainingTermMonths = 12
)

var minBalanceRatio = decimal.RequireFromString("0.2")

// TrailingYearStart returns the inclusive lower bound of the adjustment
// frequency window ending at now.
func TrailingYearStart(now time.Time) time.Time {
	return now.AddDate(-1, 0, 0)
}

// EligibilityResult is the outcome of an eligibility evaluation.
type EligibilityResult struct {
	Eligible bool
	Reason   string
}

// EligibilityEvaluator applies the adjustment eligibility rules.
type EligibilityEvaluator struct{}

// NewEligibilityEvaluator returns a new evaluator.
func NewEligibilityEvaluator() *EligibilityEvaluator {
	return &EligibilityEvaluator{}
}

// Evaluate checks a user's mortgages against the rules below. recentCounts
// maps mortgage ID to the number of adjustments created within the trailing
// year; a missing entry counts as zero.
//
//  1. at least one mortgage is active
//  2. some active mortgage has balance/original > 0.2 and more than 12 months left
//  3. every mortgage of the user has fewer than 4 recent adjustments
func (e *EligibilityEvaluator) Evaluate(mortgages []model.Mortgage, recentCounts map[string]int) EligibilityResult {
	if _, ok := model.FirstActive(mortgages); !ok {
		return EligibilityResult{Reason: "no active mortgage"}
	}

	qualifying := false
	for _, m := range mortgages {
		if m.IsActive() && qualifiesForAdjustment(m) {
			qualifying = true
			break
		}
	}
	if !qualifying {
		return EligibilityResult{Reason: "no active mortgage with sufficient balance and remaining term"}
	}

	for _, m := range mortgages {
		if recentCounts[m.ID()] >= MaxAdjustmentsPerYear {
			return EligibilityResult{Reason: "adjustment frequency limit reached for mortgage " + m.AccountNumber()}
		}
	}

	return EligibilityResult{Eligible: true, Reason: "eligible"}
}

// qualifiesForAdjustment excludes paid-down and near-maturity loans.
func qualifiesForAdjustment(m model.Mortgage) bool {
	if m.OriginalLoanAmount().IsZero() {
		return false
	}
	return m.BalanceRatio().GreaterThan(minBalanceRatio) &&
		m.RemainingTermMonths() > minRemainingTermMonths
}

package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgageflex/internal/application/dto"
)

// CheckEligibilityUseCase reports whether a user may request an adjustment.
type CheckEligibilityUseCase struct {
	gate *EligibilityGate
}

// NewCheckEligibilityUseCase wires dependencies.
func NewCheckEligibilityUseCase(gate *EligibilityGate) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{gate: gate}
}

// Execute evaluates the eligibility rules afresh.
func (uc *CheckEligibilityUseCase) Execute(ctx context.Context, req dto.CheckEligibilityRequest) (dto.EligibilityResponse, error) {
	ctx, span := tracer.Start(ctx, "CheckEligibility")
	defer span.End()

	result, _, err := uc.gate.Evaluate(ctx, req.UserID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("evaluate eligibility: %w", err)
	}

	return dto.EligibilityResponse{
		UserID:   req.UserID,
		Eligible: result.Eligible,
		Reason:   result.Reason,
	}, nil
}

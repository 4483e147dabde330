package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
	"github.com/bibbank/mortgageflex/internal/domain/service"
)

// GenerateRecommendationUseCase proposes an adjustment for the user's first
// active mortgage.
type GenerateRecommendationUseCase struct {
	mortgages port.MortgageRepository
	profiles  port.FinancialProfileRepository
	oracle    port.RiskOracle
	advisor   *service.AdjustmentAdvisor
}

// NewGenerateRecommendationUseCase wires dependencies.
func NewGenerateRecommendationUseCase(
	mortgages port.MortgageRepository,
	profiles port.FinancialProfileRepository,
	oracle port.RiskOracle,
) *GenerateRecommendationUseCase {
	return &GenerateRecommendationUseCase{
		mortgages: mortgages,
		profiles:  profiles,
		oracle:    oracle,
		advisor:   service.NewAdjustmentAdvisor(),
	}
}

// Execute builds the recommendation. It fails with model.ErrNoMortgages or
// model.ErrNoActiveMortgage when there is nothing to adjust.
func (uc *GenerateRecommendationUseCase) Execute(
	ctx context.Context,
	req dto.RecommendationRequest,
) (dto.RecommendationResponse, error) {
	ctx, span := tracer.Start(ctx, "GenerateRecommendation")
	defer span.End()

	mortgages, err := uc.mortgages.FindByUserID(ctx, req.UserID)
	if err != nil {
		return dto.RecommendationResponse{}, fmt.Errorf("find mortgages: %w", err)
	}
	if len(mortgages) == 0 {
		return dto.RecommendationResponse{}, fmt.Errorf("user %s: %w", req.UserID, model.ErrNoMortgages)
	}
	mortgage, ok := model.FirstActive(mortgages)
	if !ok {
		return dto.RecommendationResponse{}, fmt.Errorf("user %s: %w", req.UserID, model.ErrNoActiveMortgage)
	}

	amount, err := uc.oracle.RecommendedReduction(ctx, req.UserID)
	if err != nil {
		return dto.RecommendationResponse{}, fmt.Errorf("recommended reduction: %w", err)
	}
	difficulty, err := uc.oracle.PaymentDifficulty(ctx, req.UserID)
	if err != nil {
		return dto.RecommendationResponse{}, fmt.Errorf("predict payment difficulty: %w", err)
	}
	pressures, err := uc.oracle.PressureTypes(ctx, req.UserID)
	if err != nil {
		return dto.RecommendationResponse{}, fmt.Errorf("identify pressure types: %w", err)
	}

	stability := service.DefaultStabilityScore
	profile, err := uc.profiles.FindByUserID(ctx, req.UserID)
	switch {
	case err == nil:
		stability = profile.StabilityScore()
	case !errors.Is(err, model.ErrFinancialProfileNotFound):
		return dto.RecommendationResponse{}, fmt.Errorf("find financial profile: %w", err)
	}

	duration := uc.advisor.RecommendedDuration(difficulty)

	return dto.RecommendationResponse{
		UserID:                       req.UserID,
		MortgageAccountNumber:        mortgage.AccountNumber(),
		RecommendedReductionAmount:   amount,
		RecommendedDurationMonths:    duration,
		DetectedPressureTypes:        pressures,
		FinancialRiskScore:           difficulty,
		RecommendedRepaymentStrategy: uc.advisor.RecommendedStrategy(stability),
		ProjectedLoanTermImpact:      uc.advisor.LoanTermImpact(amount, duration),
	}, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/port"
)

// GetFinancialInsightsUseCase summarises a user's financial profile.
type GetFinancialInsightsUseCase struct {
	oracle port.RiskOracle
}

// NewGetFinancialInsightsUseCase wires dependencies.
func NewGetFinancialInsightsUseCase(oracle port.RiskOracle) *GetFinancialInsightsUseCase {
	return &GetFinancialInsightsUseCase{oracle: oracle}
}

// Execute returns the insights together with the long-term impact of the
// reduction the oracle would recommend. It fails with
// model.ErrFinancialProfileNotFound when the user has no profile.
func (uc *GetFinancialInsightsUseCase) Execute(
	ctx context.Context,
	req dto.FinancialInsightsRequest,
) (dto.FinancialInsightsResponse, error) {
	ctx, span := tracer.Start(ctx, "GetFinancialInsights")
	defer span.End()

	in, err := uc.oracle.FinancialInsights(ctx, req.UserID)
	if err != nil {
		return dto.FinancialInsightsResponse{}, fmt.Errorf("financial insights: %w", err)
	}
	recommended, err := uc.oracle.RecommendedReduction(ctx, req.UserID)
	if err != nil {
		return dto.FinancialInsightsResponse{}, fmt.Errorf("recommended reduction: %w", err)
	}
	impact, err := uc.oracle.LongTermImpact(ctx, req.UserID, recommended)
	if err != nil {
		return dto.FinancialInsightsResponse{}, fmt.Errorf("long-term impact: %w", err)
	}

	return dto.FinancialInsightsResponse{
		UserID:                  req.UserID,
		DebtToIncomeRatio:       in.DebtToIncomeRatio,
		CreditScore:             in.CreditScore,
		FinancialStabilityScore: in.StabilityScore,
		PaymentDifficulty:       in.PaymentDifficulty,
		FlexibilityScore:        in.FlexibilityScore,
		RecommendedReduction:    recommended,
		LongTermImpact: dto.LongTermImpactResponse{
			AdditionalInterestProjection: impact.AdditionalInterestProjection,
			ExtendedLoanTermMonths:       impact.ExtendedLoanTermMonths,
			RiskMitigationScore:          impact.RiskMitigationScore,
		},
	}, nil
}

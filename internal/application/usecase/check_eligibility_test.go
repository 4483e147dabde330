package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

func TestCheckEligibility_Execute(t *testing.T) {
	t.Run("eligible", func(t *testing.T) {
		mortgages := &mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}}
		uc := usecase.NewCheckEligibilityUseCase(newGate(mortgages, &mockAdjustmentRepository{}))

		got, err := uc.Execute(context.Background(), dto.CheckEligibilityRequest{UserID: "USER12345"})
		require.NoError(t, err)
		assert.True(t, got.Eligible)
		assert.Equal(t, "USER12345", got.UserID)
	})

	t.Run("no mortgages", func(t *testing.T) {
		uc := usecase.NewCheckEligibilityUseCase(newGate(&mockMortgageRepository{}, &mockAdjustmentRepository{}))

		got, err := uc.Execute(context.Background(), dto.CheckEligibilityRequest{UserID: "USER12345"})
		require.NoError(t, err)
		assert.False(t, got.Eligible)
		assert.NotEmpty(t, got.Reason)
	})

	t.Run("frequency limit", func(t *testing.T) {
		mortgages := &mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}}
		adjustments := &mockAdjustmentRepository{}
		for i := 0; i < service.MaxAdjustmentsPerYear; i++ {
			adjustments.records = append(adjustments.records,
				storedAdjustment("ADJ-LIM0000"+string(rune('1'+i)), "mortgage-1", testNow.AddDate(0, -2*i, 0), valueobject.AdjustmentStatusApproved))
		}
		uc := usecase.NewCheckEligibilityUseCase(newGate(mortgages, adjustments))

		got, err := uc.Execute(context.Background(), dto.CheckEligibilityRequest{UserID: "USER12345"})
		require.NoError(t, err)
		assert.False(t, got.Eligible)
		assert.Contains(t, got.Reason, "MORT98765")
	})

	t.Run("store failure", func(t *testing.T) {
		uc := usecase.NewCheckEligibilityUseCase(newGate(&mockMortgageRepository{err: errors.New("timeout")}, &mockAdjustmentRepository{}))

		_, err := uc.Execute(context.Background(), dto.CheckEligibilityRequest{UserID: "USER12345"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count active mortgages")
	})
}

func TestGetFinancialInsights_Execute(t *testing.T) {
	t.Run("maps oracle insights", func(t *testing.T) {
		oracle := &mockRiskOracle{
			insights: service.FinancialInsights{
				DebtToIncomeRatio: d("35.5"),
				CreditScore:       720,
				StabilityScore:    0.8,
				PaymentDifficulty: 0.35,
				FlexibilityScore:  0.42,
			},
			recommended: d("350.00"),
			impact: service.LongTermImpact{
				AdditionalInterestProjection: d("17.50"),
				ExtendedLoanTermMonths:       1,
				RiskMitigationScore:          0.35,
			},
		}
		uc := usecase.NewGetFinancialInsightsUseCase(oracle)

		got, err := uc.Execute(context.Background(), dto.FinancialInsightsRequest{UserID: "USER12345"})
		require.NoError(t, err)
		assert.Equal(t, "USER12345", got.UserID)
		assert.True(t, got.DebtToIncomeRatio.Equal(d("35.5")))
		assert.Equal(t, 720, got.CreditScore)
		assert.InDelta(t, 0.8, got.FinancialStabilityScore, 1e-9)
		assert.InDelta(t, 0.35, got.PaymentDifficulty, 1e-9)
		assert.InDelta(t, 0.42, got.FlexibilityScore, 1e-9)
		assert.True(t, got.RecommendedReduction.Equal(d("350.00")))
		assert.True(t, oracle.impactFor.Equal(d("350.00")))
		assert.True(t, got.LongTermImpact.AdditionalInterestProjection.Equal(d("17.50")))
		assert.Equal(t, 1, got.LongTermImpact.ExtendedLoanTermMonths)
	})

	t.Run("missing profile", func(t *testing.T) {
		uc := usecase.NewGetFinancialInsightsUseCase(&mockRiskOracle{err: model.ErrFinancialProfileNotFound})

		_, err := uc.Execute(context.Background(), dto.FinancialInsightsRequest{UserID: "USER12345"})
		assert.True(t, errors.Is(err, model.ErrFinancialProfileNotFound))
	})
}

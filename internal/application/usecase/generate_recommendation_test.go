package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

func profileWithStability(stability float64) *model.FinancialProfile {
	p := model.ReconstructFinancialProfile("USER12345", d("120000"), 720, d("35"),
		valueobject.EmploymentStatusFullTime, stability, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return &p
}

func TestGenerateRecommendation_Execute(t *testing.T) {
	req := dto.RecommendationRequest{UserID: "USER12345"}

	t.Run("maps difficulty and stability to a recommendation", func(t *testing.T) {
		oracle := &mockRiskOracle{
			difficulty:  0.6,
			recommended: d("600.00"),
			pressures:   []valueobject.PressureType{valueobject.PressureTypeCareerTransition},
		}
		uc := usecase.NewGenerateRecommendationUseCase(
			&mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}},
			&mockProfileRepository{profile: profileWithStability(0.8)},
			oracle,
		)

		got, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "MORT98765", got.MortgageAccountNumber)
		assert.True(t, got.RecommendedReductionAmount.Equal(d("600.00")))
		assert.Equal(t, 4, got.RecommendedDurationMonths)
		assert.Equal(t, valueobject.RepaymentStrategyFrontLoaded, got.RecommendedRepaymentStrategy)
		assert.Equal(t, []valueobject.PressureType{valueobject.PressureTypeCareerTransition}, got.DetectedPressureTypes)
		assert.InDelta(t, 0.6, got.FinancialRiskScore, 1e-9)
		assert.Equal(t, 3, got.ProjectedLoanTermImpact) // ceil(600*4/1000)
	})

	t.Run("missing profile falls back to neutral stability", func(t *testing.T) {
		uc := usecase.NewGenerateRecommendationUseCase(
			&mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}},
			&mockProfileRepository{},
			&mockRiskOracle{difficulty: 0.2, recommended: d("100.00")},
		)

		got, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, valueobject.RepaymentStrategySpreadEvenly, got.RecommendedRepaymentStrategy)
		assert.Equal(t, 2, got.RecommendedDurationMonths)
	})

	t.Run("user without mortgages", func(t *testing.T) {
		uc := usecase.NewGenerateRecommendationUseCase(&mockMortgageRepository{}, &mockProfileRepository{}, &mockRiskOracle{})

		_, err := uc.Execute(context.Background(), req)
		assert.True(t, errors.Is(err, model.ErrNoMortgages))
	})

	t.Run("user with only inactive mortgages", func(t *testing.T) {
		inactive := model.ReconstructMortgage(model.MortgageAttrs{
			ID: "mortgage-3", AccountNumber: "MORT33333", UserID: "USER12345",
			OriginalLoanAmount: d("100000"), MonthlyPayment: d("900"), Active: false,
		})
		uc := usecase.NewGenerateRecommendationUseCase(
			&mockMortgageRepository{mortgages: []model.Mortgage{inactive}},
			&mockProfileRepository{}, &mockRiskOracle{},
		)

		_, err := uc.Execute(context.Background(), req)
		assert.True(t, errors.Is(err, model.ErrNoActiveMortgage))
	})

	t.Run("oracle failure propagates", func(t *testing.T) {
		uc := usecase.NewGenerateRecommendationUseCase(
			&mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}},
			&mockProfileRepository{},
			&mockRiskOracle{err: model.ErrFinancialProfileNotFound},
		)

		_, err := uc.Execute(context.Background(), req)
		assert.True(t, errors.Is(err, model.ErrFinancialProfileNotFound))
	})
}

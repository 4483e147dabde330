package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func historyFixture() (*mockMortgageRepository, *mockAdjustmentRepository) {
	mortgages := &mockMortgageRepository{mortgages: []model.Mortgage{referenceMortgage()}}
	adjustments := &mockAdjustmentRepository{records: []model.Adjustment{
		storedAdjustment("ADJ-JAN00001", "mortgage-1", date(2024, 1, 10).Add(9*time.Hour), valueobject.AdjustmentStatusApproved),
		storedAdjustment("ADJ-FEB00001", "mortgage-1", date(2024, 2, 10).Add(9*time.Hour), valueobject.AdjustmentStatusPartiallyApproved),
		storedAdjustment("ADJ-MAR00001", "mortgage-1", date(2024, 3, 10).Add(9*time.Hour), valueobject.AdjustmentStatusPendingReview),
		storedAdjustment("ADJ-OTHER001", "mortgage-2", date(2024, 2, 12), valueobject.AdjustmentStatusApproved),
	}}
	return mortgages, adjustments
}

func ids(list []dto.AdjustmentResponse) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.AdjustmentID)
	}
	return out
}

func TestGetAdjustmentHistory_Execute(t *testing.T) {
	t.Run("date range is inclusive of whole days", func(t *testing.T) {
		mortgages, adjustments := historyFixture()
		uc := usecase.NewGetAdjustmentHistoryUseCase(mortgages, adjustments)

		got, err := uc.Execute(context.Background(), dto.AdjustmentHistoryRequest{
			UserID:   "USER12345",
			FromDate: dto.NewDate(date(2024, 2, 1)),
			ToDate:   dto.NewDate(date(2024, 2, 28)),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)

		r := got[0]
		assert.Equal(t, "ADJ-FEB00001", r.AdjustmentID)
		assert.Equal(t, "MORT98765", r.MortgageAccountNumber)
		assert.Equal(t, "USER12345", r.UserID)
		assert.True(t, r.ApprovedReductionAmount.Equal(d("1500.00")))
		assert.True(t, r.AdjustedMonthlyPayment.Equal(d("4500.00")))
		assert.Equal(t, valueobject.AdjustmentStatusPartiallyApproved, r.Status)
		assert.Equal(t, "2024-03-01", r.AdjustmentMonth.String())
	})

	t.Run("records created on the last day are included", func(t *testing.T) {
		mortgages, adjustments := historyFixture()
		uc := usecase.NewGetAdjustmentHistoryUseCase(mortgages, adjustments)

		got, err := uc.Execute(context.Background(), dto.AdjustmentHistoryRequest{
			UserID:   "USER12345",
			FromDate: dto.NewDate(date(2024, 3, 10)),
			ToDate:   dto.NewDate(date(2024, 3, 10)),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ADJ-MAR00001"}, ids(got))
	})

	t.Run("newest first without bounds", func(t *testing.T) {
		mortgages, adjustments := historyFixture()
		uc := usecase.NewGetAdjustmentHistoryUseCase(mortgages, adjustments)

		got, err := uc.Execute(context.Background(), dto.AdjustmentHistoryRequest{UserID: "USER12345"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ADJ-MAR00001", "ADJ-FEB00001", "ADJ-JAN00001"}, ids(got))
		assert.Equal(t, 1, adjustments.findByMortgageCalls)
		assert.Zero(t, adjustments.findByStatusCalls)
	})

	t.Run("status filter uses the status query", func(t *testing.T) {
		mortgages, adjustments := historyFixture()
		uc := usecase.NewGetAdjustmentHistoryUseCase(mortgages, adjustments)

		got, err := uc.Execute(context.Background(), dto.AdjustmentHistoryRequest{
			UserID: "USER12345",
			Status: valueobject.AdjustmentStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"ADJ-JAN00001"}, ids(got))
		assert.Equal(t, 1, adjustments.findByStatusCalls)
		assert.Zero(t, adjustments.findByMortgageCalls)
	})

	t.Run("user without mortgages gets an empty list", func(t *testing.T) {
		_, adjustments := historyFixture()
		uc := usecase.NewGetAdjustmentHistoryUseCase(&mockMortgageRepository{}, adjustments)

		got, err := uc.Execute(context.Background(), dto.AdjustmentHistoryRequest{UserID: "USER00001"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

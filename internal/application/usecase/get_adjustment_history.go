package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
)

// GetAdjustmentHistoryUseCase lists a user's adjustments across all of their
// mortgages, newest first.
type GetAdjustmentHistoryUseCase struct {
	mortgages   port.MortgageRepository
	adjustments port.AdjustmentRepository
}

// NewGetAdjustmentHistoryUseCase wires dependencies.
func NewGetAdjustmentHistoryUseCase(
	mortgages port.MortgageRepository,
	adjustments port.AdjustmentRepository,
) *GetAdjustmentHistoryUseCase {
	return &GetAdjustmentHistoryUseCase{mortgages: mortgages, adjustments: adjustments}
}

// Execute returns the matching records. FromDate and ToDate are inclusive
// calendar days; a user without mortgages gets an empty list.
func (uc *GetAdjustmentHistoryUseCase) Execute(
	ctx context.Context,
	req dto.AdjustmentHistoryRequest,
) ([]dto.AdjustmentResponse, error) {
	ctx, span := tracer.Start(ctx, "GetAdjustmentHistory")
	defer span.End()

	mortgages, err := uc.mortgages.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("find mortgages: %w", err)
	}

	var from, to time.Time
	if !req.FromDate.IsZero() {
		from = model.StartOfDay(req.FromDate.Time)
	}
	if !req.ToDate.IsZero() {
		to = model.StartOfDay(req.ToDate.Time).AddDate(0, 0, 1)
	}

	type entry struct {
		adj      model.Adjustment
		mortgage model.Mortgage
	}
	var entries []entry

	for _, m := range mortgages {
		var records []model.Adjustment
		if req.Status.IsZero() {
			records, err = uc.adjustments.FindByMortgageID(ctx, m.ID())
		} else {
			records, err = uc.adjustments.FindByMortgageAndStatus(ctx, m.ID(), req.Status)
		}
		if err != nil {
			return nil, fmt.Errorf("find adjustments for mortgage %s: %w", m.AccountNumber(), err)
		}

		for _, adj := range records {
			created := adj.CreatedAt()
			if !from.IsZero() && created.Before(from) {
				continue
			}
			if !to.IsZero() && !created.Before(to) {
				continue
			}
			entries = append(entries, entry{adj: adj, mortgage: m})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].adj.CreatedAt().After(entries[j].adj.CreatedAt())
	})

	out := make([]dto.AdjustmentResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryResponse(req.UserID, e.mortgage, e.adj))
	}
	return out, nil
}

func toHistoryResponse(userID string, m model.Mortgage, a model.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		AdjustmentID:            a.ID(),
		UserID:                  userID,
		MortgageAccountNumber:   m.AccountNumber(),
		OriginalMonthlyPayment:  a.OriginalMonthlyPayment(),
		ApprovedReductionAmount: a.ApprovedReduction(),
		AdjustedMonthlyPayment:  a.ReducedPayment(),
		AdditionalInterest:      a.AdditionalInterest(),
		Status:                  a.Status(),
		RequestTimestamp:        a.CreatedAt(),
		AdjustmentMonth:         dto.NewDate(a.AdjustmentMonth()),
		RepaymentScheduleStart:  dto.NewDate(a.RepaymentStartDate()),
		RiskAssessmentScore:     a.RiskScore(),
	}
}

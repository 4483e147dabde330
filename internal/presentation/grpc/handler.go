package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/presentation/validation"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

// AdjustmentHandler implements AdjustmentServiceServer on top of the use
// cases.
type AdjustmentHandler struct {
	ops       usecase.Operations
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAdjustmentHandler wires the handler to the use cases.
func NewAdjustmentHandler(ops usecase.Operations, v *validation.Validator, logger *slog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{ops: ops, validator: v, logger: logger}
}

var _ AdjustmentServiceServer = (*AdjustmentHandler)(nil)

func (h *AdjustmentHandler) ProcessAdjustment(ctx context.Context, req *dto.ProcessAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.ops.Process.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *AdjustmentHandler) CheckEligibility(ctx context.Context, req *dto.CheckEligibilityRequest) (*dto.EligibilityResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.ops.Eligibility.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *AdjustmentHandler) GetAdjustmentHistory(ctx context.Context, req *dto.AdjustmentHistoryRequest) (*AdjustmentHistoryResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	if !req.FromDate.IsZero() && !req.ToDate.IsZero() && req.ToDate.Before(req.FromDate.Time) {
		return nil, status.Error(codes.InvalidArgument, "to_date is before from_date")
	}
	resp, err := h.ops.History.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &AdjustmentHistoryResponse{Adjustments: resp}, nil
}

func (h *AdjustmentHandler) GenerateRecommendation(ctx context.Context, req *dto.RecommendationRequest) (*dto.RecommendationResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.ops.Recommendation.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *AdjustmentHandler) SimulateAdjustment(ctx context.Context, req *dto.SimulationRequest) (*dto.SimulationResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.ops.Simulate.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *AdjustmentHandler) CancelAdjustment(ctx context.Context, req *dto.CancelAdjustmentRequest) (*CancelAdjustmentResponse, error) {
	if err := h.validator.Struct(req); err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if err := h.ops.Cancel.Execute(ctx, *req); err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &CancelAdjustmentResponse{}, nil
}

func (h *AdjustmentHandler) GetFinancialInsights(ctx context.Context, req *dto.FinancialInsightsRequest) (*dto.FinancialInsightsResponse, error) {
	if err := h.check(ctx, req, req.UserID); err != nil {
		return nil, err
	}
	resp, err := h.ops.Insights.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// check validates req and verifies the caller may act for userID.
func (h *AdjustmentHandler) check(ctx context.Context, req any, userID string) error {
	if err := h.validator.Struct(req); err != nil {
		return h.toStatus(ctx, err)
	}
	if err := auth.Authorize(ctx, userID); err != nil {
		return h.toStatus(ctx, err)
	}
	return nil
}

func (h *AdjustmentHandler) toStatus(ctx context.Context, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, auth.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, model.ErrMortgageNotFound),
		errors.Is(err, model.ErrAdjustmentNotFound),
		errors.Is(err, model.ErrNoMortgages),
		errors.Is(err, model.ErrNoActiveMortgage),
		errors.Is(err, model.ErrFinancialProfileNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		h.logger.ErrorContext(ctx, "rpc failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

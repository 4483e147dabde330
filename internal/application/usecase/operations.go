package usecase

import (
	"context"

	"github.com/bibbank/mortgageflex/internal/application/dto"
)

// Operation is a use case that answers a request.
type Operation[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// OperationFunc adapts a function to Operation.
type OperationFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f OperationFunc[Req, Resp]) Execute(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Command is a use case that only reports success or failure.
type Command[Req any] interface {
	Execute(ctx context.Context, req Req) error
}

// CommandFunc adapts a function to Command.
type CommandFunc[Req any] func(ctx context.Context, req Req) error

func (f CommandFunc[Req]) Execute(ctx context.Context, req Req) error {
	return f(ctx, req)
}

// Operations is the set of use cases the transports expose.
type Operations struct {
	Process        Operation[dto.ProcessAdjustmentRequest, dto.AdjustmentResponse]
	Eligibility    Operation[dto.CheckEligibilityRequest, dto.EligibilityResponse]
	History        Operation[dto.AdjustmentHistoryRequest, []dto.AdjustmentResponse]
	Recommendation Operation[dto.RecommendationRequest, dto.RecommendationResponse]
	Simulate       Operation[dto.SimulationRequest, dto.SimulationResponse]
	Cancel         Command[dto.CancelAdjustmentRequest]
	Insights       Operation[dto.FinancialInsightsRequest, dto.FinancialInsightsResponse]
}

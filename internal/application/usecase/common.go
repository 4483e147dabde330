package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
	"github.com/bibbank/mortgageflex/internal/domain/service"
)

const instrumentationName = "github.com/bibbank/mortgageflex/internal/application/usecase"

var tracer = otel.Tracer(instrumentationName)

// ---------------------------------------------------------------------------
// Eligibility gate shared by process, check and simulate
// ---------------------------------------------------------------------------

// EligibilityGate loads the data the eligibility rules need and evaluates
// them. Nothing is cached: every call reads the stores again.
type EligibilityGate struct {
	mortgages   port.MortgageRepository
	adjustments port.AdjustmentRepository
	evaluator   *service.EligibilityEvaluator
	clock       port.Clock
}

// NewEligibilityGate wires dependencies.
func NewEligibilityGate(
	mortgages port.MortgageRepository,
	adjustments port.AdjustmentRepository,
	evaluator *service.EligibilityEvaluator,
	clock port.Clock,
) *EligibilityGate {
	return &EligibilityGate{
		mortgages:   mortgages,
		adjustments: adjustments,
		evaluator:   evaluator,
		clock:       clock,
	}
}

// Evaluate returns the eligibility outcome together with the user's
// mortgages, which callers reuse for capping.
func (g *EligibilityGate) Evaluate(ctx context.Context, userID string) (service.EligibilityResult, []model.Mortgage, error) {
	active, err := g.mortgages.CountActiveByUserID(ctx, userID)
	if err != nil {
		return service.EligibilityResult{}, nil, fmt.Errorf("count active mortgages: %w", err)
	}
	if active == 0 {
		return g.evaluator.Evaluate(nil, nil), nil, nil
	}

	mortgages, err := g.mortgages.FindByUserID(ctx, userID)
	if err != nil {
		return service.EligibilityResult{}, nil, fmt.Errorf("find mortgages: %w", err)
	}

	ids := make([]string, 0, len(mortgages))
	for _, m := range mortgages {
		ids = append(ids, m.ID())
	}
	counts, err := g.adjustments.CountSince(ctx, ids, service.TrailingYearStart(g.clock.Now()))
	if err != nil {
		return service.EligibilityResult{}, nil, fmt.Errorf("count recent adjustments: %w", err)
	}

	return g.evaluator.Evaluate(mortgages, counts), mortgages, nil
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

type adjustmentMetrics struct {
	processed metric.Int64Counter
	cancelled metric.Int64Counter
}

func newAdjustmentMetrics(logger *slog.Logger) adjustmentMetrics {
	meter := otel.Meter(instrumentationName)

	processed, err := meter.Int64Counter("mortgage_adjustments_processed",
		metric.WithDescription("Adjustment requests processed, by resulting status"))
	if err != nil {
		logger.Warn("create processed counter", "error", err)
	}
	cancelled, err := meter.Int64Counter("mortgage_adjustment_cancellations",
		metric.WithDescription("Pending adjustments cancelled"))
	if err != nil {
		logger.Warn("create cancellations counter", "error", err)
	}
	return adjustmentMetrics{processed: processed, cancelled: cancelled}
}

func (m adjustmentMetrics) recordProcessed(ctx context.Context, status string) {
	if m.processed != nil {
		m.processed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (m adjustmentMetrics) recordCancelled(ctx context.Context) {
	if m.cancelled != nil {
		m.cancelled.Add(ctx, 1)
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toProjectionResponses(rows []model.MonthlyProjection) []dto.MonthlyProjectionResponse {
	out := make([]dto.MonthlyProjectionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyProjectionResponse{
			Month:            dto.NewDate(r.Month),
			ProjectedPayment: r.ProjectedPayment,
			PrincipalPortion: r.PrincipalPortion,
			InterestPortion:  r.InterestPortion,
		})
	}
	return out
}

func toBreakdownResponse(b model.RepaymentBreakdown) *dto.RepaymentBreakdownResponse {
	return &dto.RepaymentBreakdownResponse{
		RemainingPrincipal:          b.RemainingPrincipal,
		TotalInterestImpact:         b.TotalInterestImpact,
		ProjectedLoanCompletionDate: dto.NewDate(b.ProjectedLoanCompletionDate),
		AdditionalMonths:            b.AdditionalMonths,
		MonthlyProjections:          toProjectionResponses(b.MonthlyProjections),
	}
}

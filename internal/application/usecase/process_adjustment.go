package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/event"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// ProcessAdjustmentUseCase evaluates a payment reduction request, records the
// decision and describes how the reduction will be recovered.
type ProcessAdjustmentUseCase struct {
	gate        *EligibilityGate
	mortgages   port.MortgageRepository
	adjustments port.AdjustmentRepository
	oracle      port.RiskOracle
	publisher   port.EventPublisher
	ids         port.IDGenerator
	clock       port.Clock
	capper      *service.ReductionCapper
	deferral    *service.InterestDeferralCalculator
	projector   *service.AmortizationProjector
	advisor     *service.AdjustmentAdvisor
	metrics     adjustmentMetrics
	logger      *slog.Logger
}

// NewProcessAdjustmentUseCase wires dependencies.
func NewProcessAdjustmentUseCase(
	gate *EligibilityGate,
	mortgages port.MortgageRepository,
	adjustments port.AdjustmentRepository,
	oracle port.RiskOracle,
	publisher port.EventPublisher,
	ids port.IDGenerator,
	clock port.Clock,
	logger *slog.Logger,
) *ProcessAdjustmentUseCase {
	logger = loggerOrDefault(logger)
	return &ProcessAdjustmentUseCase{
		gate:        gate,
		mortgages:   mortgages,
		adjustments: adjustments,
		oracle:      oracle,
		publisher:   publisher,
		ids:         ids,
		clock:       clock,
		capper:      service.NewReductionCapper(),
		deferral:    service.NewInterestDeferralCalculator(),
		projector:   service.NewAmortizationProjector(),
		advisor:     service.NewAdjustmentAdvisor(),
		metrics:     newAdjustmentMetrics(logger),
		logger:      logger,
	}
}

// Execute runs the request through eligibility, capping and interest
// deferral. An ineligible user gets a REJECTED response and nothing is
// stored; every other outcome is persisted before the response is built.
func (uc *ProcessAdjustmentUseCase) Execute(
	ctx context.Context,
	req dto.ProcessAdjustmentRequest,
) (dto.AdjustmentResponse, error) {
	ctx, span := tracer.Start(ctx, "ProcessAdjustment")
	defer span.End()
	span.SetAttributes(
		attribute.String("user_id", req.UserID),
		attribute.String("mortgage_account", req.MortgageAccountNumber),
	)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return resp, err
}

func (uc *ProcessAdjustmentUseCase) execute(
	ctx context.Context,
	req dto.ProcessAdjustmentRequest,
) (dto.AdjustmentResponse, error) {
	now := uc.clock.Now().UTC()
	log := uc.logger.With("user_id", req.UserID, "mortgage_account", req.MortgageAccountNumber)

	// 1. Eligibility gate.
	eligibility, mortgages, err := uc.gate.Evaluate(ctx, req.UserID)
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("evaluate eligibility: %w", err)
	}
	if !eligibility.Eligible {
		log.Info("adjustment rejected", "status", valueobject.AdjustmentStatusRejected.String(), "reason", eligibility.Reason)
		uc.metrics.recordProcessed(ctx, valueobject.AdjustmentStatusRejected.String())
		return notEligibleResponse(req, now), nil
	}

	// 2. Target mortgage. A mortgage owned by someone else is not found.
	mortgage, err := uc.mortgages.FindByAccountNumber(ctx, req.MortgageAccountNumber)
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("find mortgage: %w", err)
	}
	if mortgage.UserID() != req.UserID {
		return dto.AdjustmentResponse{}, fmt.Errorf("find mortgage %s for user %s: %w",
			req.MortgageAccountNumber, req.UserID, model.ErrMortgageNotFound)
	}

	// 3. Stress flag.
	highRisk, err := uc.oracle.StressFlag(ctx, req.UserID)
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("assess financial stress: %w", err)
	}

	// 4. Cap the reduction.
	approved := uc.capper.Cap(mortgages, req.ReductionAmount, highRisk)

	// 5. Single-month interest on the deferred amount.
	additionalInterest := uc.deferral.SingleMonth(approved, mortgage.InterestRate())

	// 6-8. Identifier, adjusted payment and lifetime cost.
	id := uc.ids.NewAdjustmentID()
	adjustedPayment := mortgage.MonthlyPayment().Sub(approved)
	projectedCost := money.Round(additionalInterest.Mul(decimal.NewFromInt(int64(mortgage.RemainingTermMonths()))))

	// 9. Risk snapshot.
	riskScore, err := uc.oracle.PaymentDifficulty(ctx, req.UserID)
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("predict payment difficulty: %w", err)
	}

	// 10. Status decision.
	status := uc.advisor.DecideStatus(approved, req.ReductionAmount)

	// 11. Persist, re-checking the frequency limit atomically.
	adjustmentMonth := dto.NewDate(req.AdjustmentMonth.Time).Time
	adj, err := model.NewAdjustment(
		id, mortgage.ID(),
		mortgage.MonthlyPayment(), approved, additionalInterest,
		status, adjustmentMonth, req.Reason, req.PressureType, riskScore, now,
	)
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("create adjustment: %w", err)
	}

	err = uc.adjustments.InsertWithinLimit(ctx, adj, service.TrailingYearStart(now), service.MaxAdjustmentsPerYear)
	if errors.Is(err, model.ErrAdjustmentLimitReached) {
		log.Info("adjustment rejected", "status", valueobject.AdjustmentStatusRejected.String(), "reason", "frequency limit reached on insert")
		uc.metrics.recordProcessed(ctx, valueobject.AdjustmentStatusRejected.String())
		return notEligibleResponse(req, now), nil
	}
	if err != nil {
		return dto.AdjustmentResponse{}, fmt.Errorf("save adjustment: %w", err)
	}

	log.Info("adjustment processed",
		"adjustment_id", id,
		"status", status.String(),
		"approved_reduction", money.Format(approved),
		"high_risk", highRisk,
	)
	uc.metrics.recordProcessed(ctx, status.String())

	// 12. Notify downstream consumers. The record is already committed.
	ev := event.NewAdjustmentProcessed(id, mortgage.ID(), req.UserID, status.String(),
		approved, additionalInterest, adjustmentMonth, now)
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		log.Warn("publish adjustment processed event", "adjustment_id", id, "error", err)
	}

	// 13. Assemble the response.
	breakdown := uc.projector.Breakdown(mortgage, adjustmentMonth, adj.RepaymentStartDate(), approved, projectedCost)

	return dto.AdjustmentResponse{
		AdjustmentID:            id,
		UserID:                  req.UserID,
		MortgageAccountNumber:   mortgage.AccountNumber(),
		OriginalMonthlyPayment:  mortgage.MonthlyPayment(),
		ApprovedReductionAmount: approved,
		AdjustedMonthlyPayment:  adjustedPayment,
		AdditionalInterest:      additionalInterest,
		Status:                  status,
		StatusDescription:       uc.advisor.StatusDescription(approved, highRisk),
		RequestTimestamp:        now,
		AdjustmentMonth:         dto.NewDate(adjustmentMonth),
		RepaymentScheduleStart:  dto.NewDate(adj.RepaymentStartDate()),
		ProjectedAdditionalCost: projectedCost,
		RiskAssessmentScore:     riskScore,
		RecommendedActions:      uc.advisor.RecommendedActions(riskScore, req.PressureType),
		RepaymentBreakdown:      toBreakdownResponse(breakdown),
	}, nil
}

func notEligibleResponse(req dto.ProcessAdjustmentRequest, now time.Time) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		UserID:                req.UserID,
		MortgageAccountNumber: req.MortgageAccountNumber,
		Status:                valueobject.AdjustmentStatusRejected,
		StatusDescription:     service.DescriptionNotEligible,
		RequestTimestamp:      now,
		AdjustmentMonth:       req.AdjustmentMonth,
	}
}

package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
	"github.com/bibbank/mortgageflex/internal/domain/service"
)

// SimulateAdjustmentUseCase projects a hypothetical adjustment without
// storing anything.
type SimulateAdjustmentUseCase struct {
	gate      *EligibilityGate
	mortgages port.MortgageRepository
	oracle    port.RiskOracle
}

// NewSimulateAdjustmentUseCase wires dependencies.
func NewSimulateAdjustmentUseCase(
	gate *EligibilityGate,
	mortgages port.MortgageRepository,
	oracle port.RiskOracle,
) *SimulateAdjustmentUseCase {
	return &SimulateAdjustmentUseCase{
		gate:      gate,
		mortgages: mortgages,
		oracle:    oracle,
	}
}

// Execute runs the simulation. Eligibility is reported but does not block it.
func (uc *SimulateAdjustmentUseCase) Execute(
	ctx context.Context,
	req dto.SimulationRequest,
) (dto.SimulationResponse, error) {
	ctx, span := tracer.Start(ctx, "SimulateAdjustment")
	defer span.End()

	mortgage, err := uc.mortgages.FindByAccountNumber(ctx, req.MortgageAccountNumber)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("find mortgage: %w", err)
	}
	if mortgage.UserID() != req.UserID {
		return dto.SimulationResponse{}, fmt.Errorf("find mortgage %s for user %s: %w",
			req.MortgageAccountNumber, req.UserID, model.ErrMortgageNotFound)
	}

	eligibility, _, err := uc.gate.Evaluate(ctx, req.UserID)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("evaluate eligibility: %w", err)
	}

	riskScore, err := uc.oracle.PaymentDifficulty(ctx, req.UserID)
	if err != nil {
		return dto.SimulationResponse{}, fmt.Errorf("predict payment difficulty: %w", err)
	}

	return Simulate(mortgage, req, riskScore, eligibility.Eligible), nil
}

// Simulate computes a simulation for a known mortgage and risk score. It is
// pure and shared with the offline CLI.
func Simulate(mortgage model.Mortgage, req dto.SimulationRequest, riskScore float64, eligible bool) dto.SimulationResponse {
	deferral := service.NewInterestDeferralCalculator()
	projector := service.NewAmortizationProjector()
	advisor := service.NewAdjustmentAdvisor()

	reduction := req.ProposedReductionAmount
	adjusted := mortgage.MonthlyPayment().Sub(reduction)
	interest := deferral.MultiMonth(reduction, req.DurationMonths, mortgage.InterestRate(), mortgage.RemainingTermMonths())
	recovery := projector.RecoveryPayment(mortgage.MonthlyPayment(), reduction, req.DurationMonths)
	rows := projector.Project(mortgage, dto.NewDate(req.ProposedStartDate.Time).Time, req.DurationMonths, adjusted, recovery)

	return dto.SimulationResponse{
		ProjectedAdjustedPayment:     adjusted,
		TotalAdditionalInterest:      interest,
		ProjectedLoanTermImpact:      advisor.LoanTermImpact(reduction, req.DurationMonths),
		PostAdjustmentMonthlyPayment: recovery,
		MonthlyProjections:           toProjectionResponses(rows),
		RiskAssessmentScore:          riskScore,
		EligibleForAdjustment:        eligible,
		ImprovementSuggestions:       advisor.ImprovementSuggestions(req.DurationMonths, reduction, riskScore),
	}
}

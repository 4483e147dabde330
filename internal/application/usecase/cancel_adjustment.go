package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/event"
	"github.com/bibbank/mortgageflex/internal/domain/port"
)

// CancelAdjustmentUseCase withdraws an adjustment that is still awaiting
// review.
type CancelAdjustmentUseCase struct {
	adjustments port.AdjustmentRepository
	publisher   port.EventPublisher
	clock       port.Clock
	metrics     adjustmentMetrics
	logger      *slog.Logger
}

// NewCancelAdjustmentUseCase wires dependencies.
func NewCancelAdjustmentUseCase(
	adjustments port.AdjustmentRepository,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *CancelAdjustmentUseCase {
	logger = loggerOrDefault(logger)
	return &CancelAdjustmentUseCase{
		adjustments: adjustments,
		publisher:   publisher,
		clock:       clock,
		metrics:     newAdjustmentMetrics(logger),
		logger:      logger,
	}
}

// Execute deletes the record. It fails with model.ErrAdjustmentNotFound for
// unknown ids and valueobject.ErrInvalidStatusTransition for decided records,
// leaving the record untouched.
func (uc *CancelAdjustmentUseCase) Execute(ctx context.Context, req dto.CancelAdjustmentRequest) error {
	ctx, span := tracer.Start(ctx, "CancelAdjustment")
	defer span.End()

	adj, err := uc.adjustments.FindByID(ctx, req.AdjustmentID)
	if err != nil {
		return fmt.Errorf("find adjustment: %w", err)
	}
	if err := adj.EnsureCancellable(); err != nil {
		return err
	}

	// The store re-checks the status in the delete itself.
	if err := uc.adjustments.DeletePending(ctx, adj.ID()); err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}

	uc.logger.Info("adjustment cancelled", "adjustment_id", adj.ID(), "mortgage_id", adj.MortgageID())
	uc.metrics.recordCancelled(ctx)

	if err := uc.publisher.Publish(ctx, event.NewAdjustmentCancelled(adj.ID(), adj.MortgageID(), uc.clock.Now())); err != nil {
		uc.logger.Warn("publish adjustment cancelled event", "adjustment_id", adj.ID(), "error", err)
	}
	return nil
}

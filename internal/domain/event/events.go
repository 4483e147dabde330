package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeAdjustmentProcessed = "mortgage.adjustment.processed"
	TypeAdjustmentCancelled = "mortgage.adjustment.cancelled"

	aggregateAdjustment = "Adjustment"
)

// AdjustmentProcessed is raised after an adjustment record has been written.
type AdjustmentProcessed struct {
	events.BaseEvent
	MortgageID         string          `json:"mortgage_id"`
	UserID             string          `json:"user_id"`
	Status             string          `json:"status"`
	ApprovedReduction  decimal.Decimal `json:"approved_reduction"`
	AdditionalInterest decimal.Decimal `json:"additional_interest"`
	AdjustmentMonth    string          `json:"adjustment_month"`
}

func NewAdjustmentProcessed(
	adjustmentID, mortgageID, userID, status string,
	approved, additionalInterest decimal.Decimal,
	adjustmentMonth, now time.Time,
) AdjustmentProcessed {
	return AdjustmentProcessed{
		BaseEvent:          events.NewBaseEvent(TypeAdjustmentProcessed, adjustmentID, aggregateAdjustment, now),
		MortgageID:         mortgageID,
		UserID:             userID,
		Status:             status,
		ApprovedReduction:  approved,
		AdditionalInterest: additionalInterest,
		AdjustmentMonth:    adjustmentMonth.Format(time.DateOnly),
	}
}

// AdjustmentCancelled is raised after a pending adjustment has been deleted.
type AdjustmentCancelled struct {
	events.BaseEvent
	MortgageID string `json:"mortgage_id"`
}

func NewAdjustmentCancelled(adjustmentID, mortgageID string, now time.Time) AdjustmentCancelled {
	return AdjustmentCancelled{
		BaseEvent:  events.NewBaseEvent(TypeAdjustmentCancelled, adjustmentID, aggregateAdjustment, now),
		MortgageID: mortgageID,
	}
}

package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/event"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// MortgageRepository reads mortgages from the mortgage directory.
type MortgageRepository interface {
	// FindByAccountNumber returns model.ErrMortgageNotFound when absent.
	FindByAccountNumber(ctx context.Context, accountNumber string) (model.Mortgage, error)
	// FindByUserID returns the user's mortgages in a stable order; an empty
	// slice when the user has none.
	FindByUserID(ctx context.Context, userID string) ([]model.Mortgage, error)
	CountActiveByUserID(ctx context.Context, userID string) (int, error)
}

// AdjustmentRepository persists adjustment records.
type AdjustmentRepository interface {
	// InsertWithinLimit stores adj unless its mortgage already holds limit
	// records created at or after since, in which case it returns
	// model.ErrAdjustmentLimitReached. The check and the insert are atomic
	// with respect to other inserts for the same mortgage.
	InsertWithinLimit(ctx context.Context, adj model.Adjustment, since time.Time, limit int) error
	// FindByID returns model.ErrAdjustmentNotFound when absent.
	FindByID(ctx context.Context, id string) (model.Adjustment, error)
	FindByMortgageID(ctx context.Context, mortgageID string) ([]model.Adjustment, error)
	FindByMortgageAndStatus(ctx context.Context, mortgageID string, status valueobject.AdjustmentStatus) ([]model.Adjustment, error)
	// CountSince counts records for each mortgage created at or after since.
	// Mortgages without records are absent from the result.
	CountSince(ctx context.Context, mortgageIDs []string, since time.Time) (map[string]int, error)
	// DeletePending deletes the record only while it is PENDING_REVIEW. It
	// returns model.ErrAdjustmentNotFound when the record is gone and
	// valueobject.ErrInvalidStatusTransition when it is in any other status.
	DeletePending(ctx context.Context, id string) error
}

// FinancialProfileRepository reads profiles from the profile store.
type FinancialProfileRepository interface {
	// FindByUserID returns model.ErrFinancialProfileNotFound when absent.
	FindByUserID(ctx context.Context, userID string) (model.FinancialProfile, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// RiskOracle scores a user's financial situation from their stored profile.
// Every method returns model.ErrFinancialProfileNotFound for unknown users.
type RiskOracle interface {
	StressFlag(ctx context.Context, userID string) (bool, error)
	PaymentDifficulty(ctx context.Context, userID string) (float64, error)
	RecommendedReduction(ctx context.Context, userID string) (decimal.Decimal, error)
	PressureTypes(ctx context.Context, userID string) ([]valueobject.PressureType, error)
	FinancialInsights(ctx context.Context, userID string) (service.FinancialInsights, error)
	LongTermImpact(ctx context.Context, userID string, reduction decimal.Decimal) (service.LongTermImpact, error)
}

// IDGenerator issues identifiers for new adjustment records.
type IDGenerator interface {
	NewAdjustmentID() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

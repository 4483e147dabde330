package adapter

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/port"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// ProfileRiskOracle implements port.RiskOracle by scoring the user's stored
// financial profile with service.RiskModel. Every call reads the profile
// afresh so answers track the profile store.
type ProfileRiskOracle struct {
	profiles port.FinancialProfileRepository
	model    *service.RiskModel
}

// NewProfileRiskOracle creates an oracle backed by the given profile store.
func NewProfileRiskOracle(profiles port.FinancialProfileRepository) *ProfileRiskOracle {
	return &ProfileRiskOracle{
		profiles: profiles,
		model:    service.NewRiskModel(),
	}
}

func (o *ProfileRiskOracle) profile(ctx context.Context, userID string) (model.FinancialProfile, error) {
	if userID == "" {
		return model.FinancialProfile{}, fmt.Errorf("user ID is required")
	}
	p, err := o.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return model.FinancialProfile{}, fmt.Errorf("load financial profile for %s: %w", userID, err)
	}
	return p, nil
}

// StressFlag reports whether the user's stress score exceeds 0.7.
func (o *ProfileRiskOracle) StressFlag(ctx context.Context, userID string) (bool, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return false, err
	}
	return o.model.IsHighStress(p), nil
}

// PaymentDifficulty returns the user's payment difficulty in [0,1].
func (o *ProfileRiskOracle) PaymentDifficulty(ctx context.Context, userID string) (float64, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return 0, err
	}
	return o.model.PaymentDifficulty(p), nil
}

// RecommendedReduction suggests a monthly reduction scaled to income.
func (o *ProfileRiskOracle) RecommendedReduction(ctx context.Context, userID string) (decimal.Decimal, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return o.model.RecommendedReduction(p), nil
}

// PressureTypes infers the user's hardship categories.
func (o *ProfileRiskOracle) PressureTypes(ctx context.Context, userID string) ([]valueobject.PressureType, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.model.PressureTypes(p), nil
}

// FinancialInsights summarises the user's profile.
func (o *ProfileRiskOracle) FinancialInsights(ctx context.Context, userID string) (service.FinancialInsights, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return service.FinancialInsights{}, err
	}
	return o.model.Insights(p), nil
}

// LongTermImpact projects the lifetime cost of reducing the payment by
// reduction.
func (o *ProfileRiskOracle) LongTermImpact(ctx context.Context, userID string, reduction decimal.Decimal) (service.LongTermImpact, error) {
	p, err := o.profile(ctx, userID)
	if err != nil {
		return service.LongTermImpact{}, err
	}
	return o.model.LongTermImpact(p, reduction), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// FinancialProfileRepo implements port.FinancialProfileRepository.
type FinancialProfileRepo struct {
	pool *pgxpool.Pool
}

// NewFinancialProfileRepo creates a new PostgreSQL-backed profile repository.
func NewFinancialProfileRepo(pool *pgxpool.Pool) *FinancialProfileRepo {
	return &FinancialProfileRepo{pool: pool}
}

// Upsert writes a profile, replacing the user's previous one.
func (r *FinancialProfileRepo) Upsert(ctx context.Context, p model.FinancialProfile) error {
	query := `
		INSERT INTO financial_profiles (
			user_id, total_annual_income, credit_score, debt_to_income_ratio,
			employment_status, financial_stability_score, last_assessment_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			total_annual_income       = EXCLUDED.total_annual_income,
			credit_score              = EXCLUDED.credit_score,
			debt_to_income_ratio      = EXCLUDED.debt_to_income_ratio,
			employment_status         = EXCLUDED.employment_status,
			financial_stability_score = EXCLUDED.financial_stability_score,
			last_assessment_date      = EXCLUDED.last_assessment_date
	`
	_, err := r.pool.Exec(ctx, query,
		p.UserID(), p.TotalAnnualIncome(), p.CreditScore(), p.DebtToIncomeRatio(),
		p.EmploymentStatus().String(), p.StabilityScore(), nullableDate(p.LastAssessmentDate()),
	)
	if err != nil {
		return fmt.Errorf("upsert financial profile %s: %w", p.UserID(), err)
	}
	return nil
}

// FindByUserID retrieves the user's profile.
func (r *FinancialProfileRepo) FindByUserID(ctx context.Context, userID string) (model.FinancialProfile, error) {
	query := `
		SELECT user_id, total_annual_income, credit_score, debt_to_income_ratio,
		       employment_status, financial_stability_score, last_assessment_date
		FROM financial_profiles
		WHERE user_id = $1
	`
	var (
		id             string
		income, dti    decimal.Decimal
		creditScore    int
		employmentStr  string
		stability      float64
		lastAssessment pgtype.Date
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&id, &income, &creditScore, &dti, &employmentStr, &stability, &lastAssessment,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.FinancialProfile{}, fmt.Errorf("financial profile %s: %w", userID, model.ErrFinancialProfileNotFound)
	}
	if err != nil {
		return model.FinancialProfile{}, fmt.Errorf("scan financial profile: %w", err)
	}

	employment, err := valueobject.NewEmploymentStatus(employmentStr)
	if err != nil {
		return model.FinancialProfile{}, fmt.Errorf("parse employment status: %w", err)
	}

	return model.ReconstructFinancialProfile(id, income, creditScore, dti, employment, stability, dateOrZero(lastAssessment)), nil
}

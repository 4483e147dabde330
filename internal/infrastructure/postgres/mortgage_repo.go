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

const mortgageColumns = `
	id, account_number, user_id,
	original_loan_amount, current_balance, interest_rate,
	original_term_months, remaining_term_months, monthly_payment,
	mortgage_type, loan_start_date, next_payment_date, active`

// MortgageRepo implements port.MortgageRepository.
type MortgageRepo struct {
	pool *pgxpool.Pool
}

// NewMortgageRepo creates a new PostgreSQL-backed mortgage repository.
func NewMortgageRepo(pool *pgxpool.Pool) *MortgageRepo {
	return &MortgageRepo{pool: pool}
}

// Upsert writes a mortgage snapshot, replacing any row with the same ID.
// It is used to load directory data; the adjustment flow never writes
// mortgages.
func (r *MortgageRepo) Upsert(ctx context.Context, m model.Mortgage) error {
	query := `
		INSERT INTO mortgages (` + mortgageColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			account_number        = EXCLUDED.account_number,
			user_id               = EXCLUDED.user_id,
			original_loan_amount  = EXCLUDED.original_loan_amount,
			current_balance       = EXCLUDED.current_balance,
			interest_rate         = EXCLUDED.interest_rate,
			original_term_months  = EXCLUDED.original_term_months,
			remaining_term_months = EXCLUDED.remaining_term_months,
			monthly_payment       = EXCLUDED.monthly_payment,
			mortgage_type         = EXCLUDED.mortgage_type,
			loan_start_date       = EXCLUDED.loan_start_date,
			next_payment_date     = EXCLUDED.next_payment_date,
			active                = EXCLUDED.active
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID(), m.AccountNumber(), m.UserID(),
		m.OriginalLoanAmount(), m.CurrentBalance(), m.InterestRate(),
		m.OriginalTermMonths(), m.RemainingTermMonths(), m.MonthlyPayment(),
		m.MortgageType().String(), nullableDate(m.LoanStartDate()), nullableDate(m.NextPaymentDate()), m.IsActive(),
	)
	if err != nil {
		return fmt.Errorf("upsert mortgage %s: %w", m.AccountNumber(), err)
	}
	return nil
}

// FindByAccountNumber retrieves a mortgage by its account number.
func (r *MortgageRepo) FindByAccountNumber(ctx context.Context, accountNumber string) (model.Mortgage, error) {
	query := `SELECT ` + mortgageColumns + ` FROM mortgages WHERE account_number = $1`
	m, err := scanMortgage(r.pool.QueryRow(ctx, query, accountNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Mortgage{}, fmt.Errorf("mortgage %s: %w", accountNumber, model.ErrMortgageNotFound)
	}
	if err != nil {
		return model.Mortgage{}, err
	}
	return m, nil
}

// FindByUserID returns the user's mortgages in load order.
func (r *MortgageRepo) FindByUserID(ctx context.Context, userID string) ([]model.Mortgage, error) {
	query := `SELECT ` + mortgageColumns + ` FROM mortgages WHERE user_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query mortgages: %w", err)
	}
	defer rows.Close()

	mortgages := []model.Mortgage{}
	for rows.Next() {
		m, err := scanMortgage(rows)
		if err != nil {
			return nil, err
		}
		mortgages = append(mortgages, m)
	}
	return mortgages, rows.Err()
}

// CountActiveByUserID counts the user's active mortgages.
func (r *MortgageRepo) CountActiveByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM mortgages WHERE user_id = $1 AND active`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active mortgages: %w", err)
	}
	return n, nil
}

func scanMortgage(s scannable) (model.Mortgage, error) {
	var (
		id, accountNumber, userID      string
		originalAmount, balance, rate  decimal.Decimal
		originalTerm, remainingTerm    int
		payment                        decimal.Decimal
		mortgageTypeStr                string
		loanStartDate, nextPaymentDate pgtype.Date
		active                         bool
	)
	err := s.Scan(
		&id, &accountNumber, &userID,
		&originalAmount, &balance, &rate,
		&originalTerm, &remainingTerm, &payment,
		&mortgageTypeStr, &loanStartDate, &nextPaymentDate, &active,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Mortgage{}, err
	}
	if err != nil {
		return model.Mortgage{}, fmt.Errorf("scan mortgage: %w", err)
	}

	mortgageType, err := valueobject.NewMortgageType(mortgageTypeStr)
	if err != nil {
		return model.Mortgage{}, fmt.Errorf("parse mortgage type: %w", err)
	}

	return model.ReconstructMortgage(model.MortgageAttrs{
		ID:                  id,
		AccountNumber:       accountNumber,
		UserID:              userID,
		OriginalLoanAmount:  originalAmount,
		CurrentBalance:      balance,
		InterestRate:        rate,
		OriginalTermMonths:  originalTerm,
		RemainingTermMonths: remainingTerm,
		MonthlyPayment:      payment,
		MortgageType:        mortgageType,
		LoanStartDate:       dateOrZero(loanStartDate),
		NextPaymentDate:     dateOrZero(nextPaymentDate),
		Active:              active,
	}), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/mortgageflex/pkg/postgres"
)

const adjustmentColumns = `
	id, mortgage_id, created_at,
	original_monthly_payment, reduced_payment, additional_interest,
	status, adjustment_month, repayment_start_date,
	reason, pressure_type, risk_score`

// AdjustmentRepo implements port.AdjustmentRepository.
type AdjustmentRepo struct {
	pool *pgxpool.Pool
}

// NewAdjustmentRepo creates a new PostgreSQL-backed adjustment repository.
func NewAdjustmentRepo(pool *pgxpool.Pool) *AdjustmentRepo {
	return &AdjustmentRepo{pool: pool}
}

// InsertWithinLimit serialises inserts per mortgage with an advisory lock,
// re-counts the mortgage's records since since and inserts only while the
// count is below limit.
func (r *AdjustmentRepo) InsertWithinLimit(ctx context.Context, adj model.Adjustment, since time.Time, limit int) error {
	return pkgpostgres.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := pkgpostgres.LockKey(ctx, tx, "mortgage_adjustments:"+adj.MortgageID()); err != nil {
			return err
		}

		var recent int
		err := tx.QueryRow(ctx,
			`SELECT count(*) FROM mortgage_adjustments WHERE mortgage_id = $1 AND created_at >= $2`,
			adj.MortgageID(), since,
		).Scan(&recent)
		if err != nil {
			return fmt.Errorf("count recent adjustments: %w", err)
		}
		if recent >= limit {
			return model.ErrAdjustmentLimitReached
		}

		query := `INSERT INTO mortgage_adjustments (` + adjustmentColumns + `)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
		_, err = tx.Exec(ctx, query,
			adj.ID(), adj.MortgageID(), adj.CreatedAt(),
			adj.OriginalMonthlyPayment(), adj.ReducedPayment(), adj.AdditionalInterest(),
			adj.Status().String(), adj.AdjustmentMonth(), adj.RepaymentStartDate(),
			adj.Reason(), nullableText(adj.PressureType().String()), adj.RiskScore(),
		)
		if err != nil {
			return fmt.Errorf("insert adjustment %s: %w", adj.ID(), err)
		}
		return nil
	})
}

// FindByID retrieves an adjustment by ID.
func (r *AdjustmentRepo) FindByID(ctx context.Context, id string) (model.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM mortgage_adjustments WHERE id = $1`
	adj, err := scanAdjustment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Adjustment{}, fmt.Errorf("adjustment %s: %w", id, model.ErrAdjustmentNotFound)
	}
	return adj, err
}

// FindByMortgageID returns every adjustment of a mortgage, oldest first.
func (r *AdjustmentRepo) FindByMortgageID(ctx context.Context, mortgageID string) ([]model.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + `
		FROM mortgage_adjustments
		WHERE mortgage_id = $1
		ORDER BY created_at, id`
	return r.queryAdjustments(ctx, query, mortgageID)
}

// FindByMortgageAndStatus returns a mortgage's adjustments in one status.
func (r *AdjustmentRepo) FindByMortgageAndStatus(
	ctx context.Context,
	mortgageID string,
	status valueobject.AdjustmentStatus,
) ([]model.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + `
		FROM mortgage_adjustments
		WHERE mortgage_id = $1 AND status = $2
		ORDER BY created_at, id`
	return r.queryAdjustments(ctx, query, mortgageID, status.String())
}

// CountSince counts each mortgage's adjustments created at or after since.
func (r *AdjustmentRepo) CountSince(ctx context.Context, mortgageIDs []string, since time.Time) (map[string]int, error) {
	counts := make(map[string]int, len(mortgageIDs))
	if len(mortgageIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT mortgage_id, count(*)
		FROM mortgage_adjustments
		WHERE mortgage_id = ANY($1) AND created_at >= $2
		GROUP BY mortgage_id`,
		mortgageIDs, since,
	)
	if err != nil {
		return nil, fmt.Errorf("count adjustments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan adjustment count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// DeletePending removes the record in a single statement conditioned on
// PENDING_REVIEW, so a concurrent status change cannot be overwritten.
func (r *AdjustmentRepo) DeletePending(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM mortgage_adjustments WHERE id = $1 AND status = $2`,
		id, valueobject.AdjustmentStatusPendingReview.String(),
	)
	if err != nil {
		return fmt.Errorf("delete adjustment %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mortgage_adjustments WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check adjustment %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("adjustment %s: %w", id, model.ErrAdjustmentNotFound)
	}
	return fmt.Errorf("adjustment %s is no longer pending: %w", id, valueobject.ErrInvalidStatusTransition)
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *AdjustmentRepo) queryAdjustments(ctx context.Context, query string, args ...any) ([]model.Adjustment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query adjustments: %w", err)
	}
	defer rows.Close()

	out := []model.Adjustment{}
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, adj)
	}
	return out, rows.Err()
}

func scanAdjustment(s scannable) (model.Adjustment, error) {
	var (
		id, mortgageID                  string
		createdAt                       time.Time
		original, reduced, interest     decimal.Decimal
		statusStr                       string
		adjustmentMonth, repaymentStart time.Time
		reason                          string
		pressureStr                     pgtype.Text
		riskScore                       float64
	)
	err := s.Scan(
		&id, &mortgageID, &createdAt,
		&original, &reduced, &interest,
		&statusStr, &adjustmentMonth, &repaymentStart,
		&reason, &pressureStr, &riskScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Adjustment{}, err
	}
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("scan adjustment: %w", err)
	}

	status, err := valueobject.NewAdjustmentStatus(statusStr)
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("parse adjustment status: %w", err)
	}
	pressure, err := valueobject.NewPressureType(pressureStr.String)
	if err != nil {
		return model.Adjustment{}, fmt.Errorf("parse pressure type: %w", err)
	}

	return model.ReconstructAdjustment(
		id, mortgageID, createdAt.UTC(),
		original, reduced, interest, status,
		adjustmentMonth, repaymentStart,
		reason, pressure, riskScore,
	), nil
}

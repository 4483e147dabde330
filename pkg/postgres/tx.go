package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// InTx runs fn in a read-committed transaction, committing when fn returns
// nil and rolling back otherwise. fn's error is returned unwrapped so callers
// can match sentinels.
func InTx(ctx context.Context, db TxStarter, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// LockKey takes a transaction-scoped advisory lock on key. The lock is
// released when the surrounding transaction ends.
func LockKey(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("postgres: advisory lock %q: %w", key, err)
	}
	return nil
}

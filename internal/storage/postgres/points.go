package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// lockBalanceQuery serializes writers of one customer's balance across
// processes. FOR UPDATE alone locks nothing while the row does not exist yet.
const lockBalanceQuery = `SELECT pg_advisory_xact_lock(hashtext('points_balances:' || $1))`

type pointsRepository struct {
	q         querier
	forUpdate bool
}

func (r *pointsRepository) Get(ctx context.Context, wallet string) (uint32, bool, error) {
	query := `SELECT balance FROM points_balances WHERE wallet=$1`
	if r.forUpdate {
		if _, err := r.q.Exec(ctx, lockBalanceQuery, wallet); err != nil {
			return 0, false, err
		}
		query += ` FOR UPDATE`
	}

	var balance int64
	if err := r.q.QueryRow(ctx, query, wallet).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint32(balance), true, nil
}

func (r *pointsRepository) Set(ctx context.Context, wallet string, balance uint32) error {
	const query = `INSERT INTO points_balances (wallet, balance) VALUES ($1, $2)
                   ON CONFLICT (wallet) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`
	_, err := r.q.Exec(ctx, query, wallet, int64(balance))
	return err
}

package repository

import "context"

// PointsRepository is the ledger scope holding customer point balances.
// Get reports a missing record with found=false rather than an error.
type PointsRepository interface {
	Get(ctx context.Context, wallet string) (balance uint32, found bool, err error)
	Set(ctx context.Context, wallet string, balance uint32) error
}

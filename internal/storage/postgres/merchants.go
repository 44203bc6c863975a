package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
)

const uniqueViolation = "23505"

type merchantRepository struct {
	q         querier
	forUpdate bool
}

func (r *merchantRepository) Exists(ctx context.Context, wallet string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM merchants WHERE wallet=$1)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, wallet).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *merchantRepository) Get(ctx context.Context, wallet string) (*model.Merchant, error) {
	query := `SELECT wallet, name, points_ratio, redemption_rate, total_points_issued, registered_at, updated_at
              FROM merchants WHERE wallet=$1`
	if r.forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		m                     model.Merchant
		ratio, rate, issued   int64
		registered, updatedAt time.Time
	)
	err := r.q.QueryRow(ctx, query, wallet).Scan(&m.Wallet, &m.Name, &ratio, &rate, &issued, &registered, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotRegistered
		}
		return nil, err
	}
	m.PointsRatio = uint32(ratio)
	m.RedemptionRate = uint32(rate)
	m.TotalPointsIssued = uint32(issued)
	m.RegisteredAt = registered
	m.UpdatedAt = updatedAt
	return &m, nil
}

func (r *merchantRepository) Create(ctx context.Context, m *model.Merchant) error {
	const query = `INSERT INTO merchants (wallet, name, points_ratio, redemption_rate, total_points_issued, registered_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.Wallet, m.Name, int64(m.PointsRatio), int64(m.RedemptionRate),
		int64(m.TotalPointsIssued), m.RegisteredAt, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainErrors.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *merchantRepository) Update(ctx context.Context, m *model.Merchant) error {
	const query = `UPDATE merchants
                   SET name=$2, points_ratio=$3, redemption_rate=$4, total_points_issued=$5, updated_at=$6
                   WHERE wallet=$1`
	tag, err := r.q.Exec(ctx, query, m.Wallet, m.Name, int64(m.PointsRatio), int64(m.RedemptionRate),
		int64(m.TotalPointsIssued), m.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotRegistered
	}
	return nil
}

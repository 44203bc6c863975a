package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool used by Storage.
type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage is the PostgreSQL storage substrate. The registry scope lives in
// the merchants table and the ledger scope in points_balances.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Merchants returns the registry scope reading committed rows.
func (s *Storage) Merchants() repository.MerchantRepository {
	return &merchantRepository{q: s.pool}
}

// Points returns the ledger scope reading committed rows.
func (s *Storage) Points() repository.PointsRepository {
	return &pointsRepository{q: s.pool}
}

// Accounts returns the wallet account repository.
func (s *Storage) Accounts() repository.WalletAccountRepository {
	return &walletAccountRepository{q: s.pool}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS merchants (
            wallet TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            points_ratio BIGINT NOT NULL CHECK (points_ratio BETWEEN 0 AND 4294967295),
            redemption_rate BIGINT NOT NULL CHECK (redemption_rate BETWEEN 0 AND 4294967295),
            total_points_issued BIGINT NOT NULL DEFAULT 0 CHECK (total_points_issued BETWEEN 0 AND 4294967295),
            registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS points_balances (
            wallet TEXT PRIMARY KEY,
            balance BIGINT NOT NULL CHECK (balance BETWEEN 0 AND 4294967295),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS wallet_accounts (
            id BIGSERIAL PRIMARY KEY,
            wallet TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction runs fn inside a database transaction. Reads made through
// tx lock the rows they return until commit or rollback.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Scope) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && s.logger != nil {
				s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
			}
		} else if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit tx: %w", err)
		}
	}()

	err = fn(ctx, txScope{tx: tx})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

type txScope struct {
	tx pgx.Tx
}

func (t txScope) Merchants() repository.MerchantRepository {
	return &merchantRepository{q: t.tx, forUpdate: true}
}

func (t txScope) Points() repository.PointsRepository {
	return &pointsRepository{q: t.tx, forUpdate: true}
}

var _ repository.Store = (*Storage)(nil)

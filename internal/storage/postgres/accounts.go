package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
)

type walletAccountRepository struct {
	q querier
}

func (r *walletAccountRepository) Create(ctx context.Context, wallet, passwordHash string) (*model.WalletAccount, error) {
	const query = `INSERT INTO wallet_accounts (wallet, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	account := model.WalletAccount{Wallet: wallet, PasswordHash: passwordHash}
	err := r.q.QueryRow(ctx, query, wallet, passwordHash).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &account, nil
}

func (r *walletAccountRepository) GetByWallet(ctx context.Context, wallet string) (*model.WalletAccount, error) {
	const query = `SELECT id, wallet, password_hash, created_at FROM wallet_accounts WHERE wallet=$1`
	var account model.WalletAccount
	err := r.q.QueryRow(ctx, query, wallet).Scan(&account.ID, &account.Wallet, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

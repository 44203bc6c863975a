package repository

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// WalletAccountRepository stores credentials used to open wallet sessions.
type WalletAccountRepository interface {
	Create(ctx context.Context, wallet, passwordHash string) (*model.WalletAccount, error)
	GetByWallet(ctx context.Context, wallet string) (*model.WalletAccount, error)
}

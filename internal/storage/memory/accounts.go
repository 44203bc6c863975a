package memory

import (
	"context"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
)

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(ctx context.Context, wallet, passwordHash string) (*model.WalletAccount, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[wallet]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	account := model.WalletAccount{
		ID:           s.nextID,
		Wallet:       wallet,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.nextID++
	s.accounts[wallet] = account
	return &account, nil
}

func (r *accountRepository) GetByWallet(ctx context.Context, wallet string) (*model.WalletAccount, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[wallet]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &account, nil
}

package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// WalletAccountRepositoryStub stores wallet accounts in-memory for tests.
type WalletAccountRepositoryStub struct {
	mu       sync.Mutex
	Accounts map[string]*model.WalletAccount
	Next     int64
	Err      error
}

// NewWalletAccountRepositoryStub constructs stub repository with initialized maps.
func NewWalletAccountRepositoryStub() *WalletAccountRepositoryStub {
	return &WalletAccountRepositoryStub{Accounts: make(map[string]*model.WalletAccount), Next: 1}
}

// Create registers account unless it already exists or stub has explicit error.
func (s *WalletAccountRepositoryStub) Create(ctx context.Context, wallet, passwordHash string) (*model.WalletAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Accounts == nil {
		s.Accounts = make(map[string]*model.WalletAccount)
	}
	if _, exists := s.Accounts[wallet]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	account := &model.WalletAccount{ID: s.Next, Wallet: wallet, PasswordHash: passwordHash, CreatedAt: time.Unix(0, 0)}
	s.Next++
	s.Accounts[wallet] = account
	return account, nil
}

// GetByWallet fetches account by wallet or returns not found.
func (s *WalletAccountRepositoryStub) GetByWallet(ctx context.Context, wallet string) (*model.WalletAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if account, ok := s.Accounts[wallet]; ok {
		return account, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CommitFailingStore runs transactions against the wrapped store and then
// rolls them back with Err, simulating a commit failure.
type CommitFailingStore struct {
	repository.Store
	Err error
}

// WithinTransaction runs fn and discards its writes.
func (s CommitFailingStore) WithinTransaction(ctx context.Context, fn func(context.Context, repository.Scope) error) error {
	err := s.Store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return s.Err
	})
	return err
}

var _ repository.WalletAccountRepository = (*WalletAccountRepositoryStub)(nil)

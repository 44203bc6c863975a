package memory

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// Store keeps the registry and ledger scopes in process memory.
// Transactions stage their writes and apply them at once on commit. Row
// isolation between transactions is left to the caller's key locks.
type Store struct {
	mu        sync.RWMutex
	merchants map[string]model.Merchant
	points    map[string]uint32
	accounts  map[string]model.WalletAccount
	nextID    int64
	now       func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		merchants: make(map[string]model.Merchant),
		points:    make(map[string]uint32),
		accounts:  make(map[string]model.WalletAccount),
		nextID:    1,
		now:       time.Now,
	}
}

// Merchants returns the committed registry scope.
func (s *Store) Merchants() repository.MerchantRepository {
	return &merchantScope{store: s}
}

// Points returns the committed ledger scope.
func (s *Store) Points() repository.PointsRepository {
	return &pointsScope{store: s}
}

// Accounts returns the wallet account repository.
func (s *Store) Accounts() repository.WalletAccountRepository {
	return &accountRepository{store: s}
}

// WithinTransaction runs fn against a staging scope and commits its writes
// when fn succeeds.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Scope) error) error {
	tx := newTransaction(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

// HealthCheck reports only context cancellation.
func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op; state lives for the lifetime of the process.
func (s *Store) Close() {}

func (s *Store) commit(tx *transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for wallet := range tx.created {
		if _, exists := s.merchants[wallet]; exists {
			return domainErrors.ErrAlreadyRegistered
		}
	}
	for wallet, merchant := range tx.merchants {
		s.merchants[wallet] = merchant
	}
	for wallet, balance := range tx.points {
		s.points[wallet] = balance
	}
	return nil
}

func (s *Store) merchant(wallet string) (model.Merchant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.merchants[wallet]
	return m, ok
}

func (s *Store) balance(wallet string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.points[wallet]
	return b, ok
}

type merchantScope struct {
	store *Store
}

func (r *merchantScope) Exists(ctx context.Context, wallet string) (bool, error) {
	_, ok := r.store.merchant(wallet)
	return ok, nil
}

func (r *merchantScope) Get(ctx context.Context, wallet string) (*model.Merchant, error) {
	m, ok := r.store.merchant(wallet)
	if !ok {
		return nil, domainErrors.ErrNotRegistered
	}
	return &m, nil
}

func (r *merchantScope) Create(ctx context.Context, merchant *model.Merchant) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		return tx.Merchants().Create(ctx, merchant)
	})
}

func (r *merchantScope) Update(ctx context.Context, merchant *model.Merchant) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		return tx.Merchants().Update(ctx, merchant)
	})
}

type pointsScope struct {
	store *Store
}

func (r *pointsScope) Get(ctx context.Context, wallet string) (uint32, bool, error) {
	b, ok := r.store.balance(wallet)
	return b, ok, nil
}

func (r *pointsScope) Set(ctx context.Context, wallet string, balance uint32) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		return tx.Points().Set(ctx, wallet, balance)
	})
}

var _ repository.Store = (*Store)(nil)

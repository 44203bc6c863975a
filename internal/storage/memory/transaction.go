package memory

import (
	"context"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// transaction overlays staged writes on top of the committed maps.
type transaction struct {
	store     *Store
	merchants map[string]model.Merchant
	created   map[string]struct{}
	points    map[string]uint32
}

func newTransaction(store *Store) *transaction {
	return &transaction{
		store:     store,
		merchants: make(map[string]model.Merchant),
		created:   make(map[string]struct{}),
		points:    make(map[string]uint32),
	}
}

func (t *transaction) Merchants() repository.MerchantRepository { return (*txMerchants)(t) }
func (t *transaction) Points() repository.PointsRepository       { return (*txPoints)(t) }

type txMerchants transaction

func (r *txMerchants) lookup(wallet string) (model.Merchant, bool) {
	if m, ok := r.merchants[wallet]; ok {
		return m, true
	}
	return r.store.merchant(wallet)
}

func (r *txMerchants) Exists(ctx context.Context, wallet string) (bool, error) {
	_, ok := r.lookup(wallet)
	return ok, nil
}

func (r *txMerchants) Get(ctx context.Context, wallet string) (*model.Merchant, error) {
	m, ok := r.lookup(wallet)
	if !ok {
		return nil, domainErrors.ErrNotRegistered
	}
	return &m, nil
}

func (r *txMerchants) Create(ctx context.Context, merchant *model.Merchant) error {
	if _, ok := r.lookup(merchant.Wallet); ok {
		return domainErrors.ErrAlreadyRegistered
	}
	r.merchants[merchant.Wallet] = *merchant
	r.created[merchant.Wallet] = struct{}{}
	return nil
}

func (r *txMerchants) Update(ctx context.Context, merchant *model.Merchant) error {
	if _, ok := r.lookup(merchant.Wallet); !ok {
		return domainErrors.ErrNotRegistered
	}
	r.merchants[merchant.Wallet] = *merchant
	return nil
}

type txPoints transaction

func (r *txPoints) Get(ctx context.Context, wallet string) (uint32, bool, error) {
	if b, ok := r.points[wallet]; ok {
		return b, true, nil
	}
	b, ok := r.store.balance(wallet)
	return b, ok, nil
}

func (r *txPoints) Set(ctx context.Context, wallet string, balance uint32) error {
	r.points[wallet] = balance
	return nil
}

package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
	pkgAuth "github.com/polkiloo/merchpay/internal/pkg/auth"
	"github.com/polkiloo/merchpay/internal/pkg/keylock"
	"github.com/polkiloo/merchpay/internal/storage/memory"
	testhelpers "github.com/polkiloo/merchpay/internal/test"
)

const (
	merchantWallet = "GMERCHANT01"
	customerWallet = "GCUSTOMER01"
	paymentToken   = "USDC"
	rewardToken    = "REWARD"
)

type fixture struct {
	mem         *memory.Store
	tokens      *testhelpers.TokenTransfererStub
	compensator *testhelpers.CompensatorStub
	metrics     *recordingMetrics
	cache       *recordingCache

	merchants   *MerchantUseCase
	points      *PointsUseCase
	payments    *PaymentUseCase
	redemptions *RedemptionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := memory.New()
	return newFixtureWithStore(t, mem, mem)
}

func newFixtureWithStore(t *testing.T, mem *memory.Store, store repository.Store) *fixture {
	t.Helper()
	f := &fixture{
		mem:         mem,
		tokens:      &testhelpers.TokenTransfererStub{},
		compensator: &testhelpers.CompensatorStub{},
		metrics:     &recordingMetrics{},
		cache:       &recordingCache{},
	}
	ledger := Ledger{
		Store:      store,
		Authorizer: pkgAuth.ContextAuthorizer{},
		Locks:      keylock.New(),
		Cache:      f.cache,
		Metrics:    f.metrics,
	}
	f.merchants = NewMerchantUseCase(ledger)
	f.points = NewPointsUseCase(ledger, f.merchants)
	f.payments = NewPaymentUseCase(ledger, f.tokens, f.compensator)
	f.redemptions = NewRedemptionUseCase(ledger, f.tokens, f.compensator)
	return f
}

// as returns a context proving control over wallet.
func as(wallet string) context.Context {
	return pkgAuth.WithWallet(context.Background(), wallet)
}

func (f *fixture) registerMerchant(t *testing.T, wallet string, ratio, rate uint32) {
	t.Helper()
	if _, err := f.merchants.Register(as(wallet), wallet, "shop", ratio, rate); err != nil {
		t.Fatalf("register merchant %s: %v", wallet, err)
	}
}

func (f *fixture) balance(t *testing.T, wallet string) uint32 {
	t.Helper()
	balance, err := f.points.Points(context.Background(), wallet)
	if err != nil {
		t.Fatalf("points for %s: %v", wallet, err)
	}
	return balance
}

func (f *fixture) merchant(t *testing.T, wallet string) *model.Merchant {
	t.Helper()
	m, err := f.mem.Merchants().Get(context.Background(), wallet)
	if err != nil {
		t.Fatalf("merchant %s: %v", wallet, err)
	}
	return m
}

type recordingMetrics struct {
	mu       sync.Mutex
	ops      map[string]int
	failures map[string]int
	issued   uint64
	redeemed uint64
}

func (m *recordingMetrics) ObserveOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ops == nil {
		m.ops = make(map[string]int)
		m.failures = make(map[string]int)
	}
	m.ops[operation]++
	if err != nil {
		m.failures[operation]++
	}
}

func (m *recordingMetrics) AddPointsIssued(points uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued += uint64(points)
}

func (m *recordingMetrics) AddPointsRedeemed(points uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redeemed += uint64(points)
}

type recordingCache struct {
	mu          sync.Mutex
	fetches     int
	invalidated []string
}

func (c *recordingCache) Fetch(ctx context.Context, wallet string, load func(context.Context) (*model.Merchant, error)) (*model.Merchant, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	return load(ctx)
}

func (c *recordingCache) Invalidate(ctx context.Context, wallet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, wallet)
}

package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
	pkgAuth "github.com/polkiloo/merchpay/internal/pkg/auth"
	"github.com/polkiloo/merchpay/internal/pkg/keylock"
)

// Ledger bundles the collaborators shared by the merchant and points use cases.
// Cache, Metrics and Logger are optional.
type Ledger struct {
	fx.In

	Store      repository.Store
	Authorizer pkgAuth.Authorizer
	Locks      *keylock.Locker
	Cache      MerchantCache `optional:"true"`
	Metrics    Metrics       `optional:"true"`
	Logger     *slog.Logger  `optional:"true"`
}

func (l Ledger) withDefaults() Ledger {
	if l.Locks == nil {
		l.Locks = keylock.New()
	}
	if l.Cache == nil {
		l.Cache = passthroughCache{}
	}
	if l.Metrics == nil {
		l.Metrics = nopMetrics{}
	}
	if l.Logger == nil {
		l.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return l
}

type passthroughCache struct{}

func (passthroughCache) Fetch(ctx context.Context, _ string, load func(context.Context) (*model.Merchant, error)) (*model.Merchant, error) {
	return load(ctx)
}

func (passthroughCache) Invalidate(context.Context, string) {}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}
func (nopMetrics) AddPointsIssued(uint32)         {}
func (nopMetrics) AddPointsRedeemed(uint32)       {}

// settlement carries the state shared by the two token-moving processors.
type settlement struct {
	ledger Ledger

	tokens      TokenTransferer
	compensator Compensator
	newID       IDGenerator
	now         func() time.Time
}

func newSettlement(ledger Ledger, tokens TokenTransferer, compensator Compensator) settlement {
	return settlement{
		ledger:      ledger.withDefaults(),
		tokens:      tokens,
		compensator: compensator,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// compensate schedules the reverse of a transfer that went through while
// the ledger commit did not.
func (s settlement) compensate(transfer model.Transfer, cause error) {
	reverse := transfer.Reverse(s.newID())
	s.ledger.Logger.Error("ledger commit failed after token transfer, scheduling compensation",
		slog.String("transfer_id", transfer.ID),
		slog.String("compensation_id", reverse.ID),
		slog.String("reason", string(transfer.Reason)),
		slog.String("error", cause.Error()),
	)
	if s.compensator != nil {
		s.compensator.Enqueue(reverse)
	}
}

// reconcile schedules a confirm-or-reverse for a transfer the token service
// may or may not have applied.
func (s settlement) reconcile(transfer model.Transfer, cause error) {
	reverse := transfer.Reverse(s.newID())
	s.ledger.Logger.Error("token transfer outcome unknown, scheduling reconciliation",
		slog.String("transfer_id", transfer.ID),
		slog.String("compensation_id", reverse.ID),
		slog.String("reason", string(transfer.Reason)),
		slog.String("error", cause.Error()),
	)
	if s.compensator != nil {
		s.compensator.Reconcile(transfer, reverse)
	}
}

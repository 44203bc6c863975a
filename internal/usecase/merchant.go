package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// MerchantUseCase owns merchant records: registration, lookup and rate administration.
type MerchantUseCase struct {
	ledger Ledger

	now func() time.Time
}

// NewMerchantUseCase constructs MerchantUseCase.
func NewMerchantUseCase(ledger Ledger) *MerchantUseCase {
	return &MerchantUseCase{ledger: ledger.withDefaults(), now: time.Now}
}

// Register creates the merchant record for wallet. The existence check runs
// before authorization, so a duplicate fails with ErrAlreadyRegistered
// whoever the caller is.
//
// Unlike the bare registry contract, which stores any rates, Register refuses
// a zero points ratio or redemption rate with ErrInvalidRate, the same check
// UpdateRates makes. A zero redemption rate would otherwise reach redeem as a
// divisor. The check runs after the existence and authorization checks, so
// their errors keep precedence.
func (u *MerchantUseCase) Register(ctx context.Context, wallet, name string, pointsRatio, redemptionRate uint32) (merchant *model.Merchant, err error) {
	defer func() { u.ledger.Metrics.ObserveOperation(OperationRegister, err) }()

	unlock := u.ledger.Locks.Lock(wallet)
	defer unlock()

	err = u.ledger.Store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		exists, err := tx.Merchants().Exists(ctx, wallet)
		if err != nil {
			return err
		}
		if exists {
			return domainErrors.ErrAlreadyRegistered
		}
		if err := u.ledger.Authorizer.RequireAuth(ctx, wallet); err != nil {
			return err
		}
		if pointsRatio == 0 || redemptionRate == 0 {
			return domainErrors.ErrInvalidRate
		}
		if err := ValidateWallet(wallet); err != nil {
			return err
		}

		now := u.now().UTC()
		merchant = &model.Merchant{
			Wallet:         wallet,
			Name:           strings.TrimSpace(name),
			PointsRatio:    pointsRatio,
			RedemptionRate: redemptionRate,
			RegisteredAt:   now,
			UpdatedAt:      now,
		}
		return tx.Merchants().Create(ctx, merchant)
	})
	if err != nil {
		return nil, err
	}

	u.ledger.Logger.Info("merchant registered",
		slog.String("merchant", wallet),
		slog.Uint64("points_ratio", uint64(pointsRatio)),
		slog.Uint64("redemption_rate", uint64(redemptionRate)),
	)
	return merchant, nil
}

// Merchant returns the committed merchant record. No authorization is required.
func (u *MerchantUseCase) Merchant(ctx context.Context, wallet string) (*model.Merchant, error) {
	return u.ledger.Cache.Fetch(ctx, wallet, func(ctx context.Context) (*model.Merchant, error) {
		return u.ledger.Store.Merchants().Get(ctx, wallet)
	})
}

// UpdateRates overwrites both rates of the merchant owned by wallet.
func (u *MerchantUseCase) UpdateRates(ctx context.Context, wallet string, pointsRatio, redemptionRate uint32) (merchant *model.Merchant, err error) {
	defer func() { u.ledger.Metrics.ObserveOperation(OperationUpdateRates, err) }()

	if pointsRatio == 0 || redemptionRate == 0 {
		return nil, domainErrors.ErrInvalidRate
	}
	if err := u.ledger.Authorizer.RequireAuth(ctx, wallet); err != nil {
		return nil, err
	}

	unlock := u.ledger.Locks.Lock(wallet)
	defer unlock()

	err = u.ledger.Store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		current, err := tx.Merchants().Get(ctx, wallet)
		if err != nil {
			return err
		}
		current.PointsRatio = pointsRatio
		current.RedemptionRate = redemptionRate
		current.UpdatedAt = u.now().UTC()
		if err := tx.Merchants().Update(ctx, current); err != nil {
			return err
		}
		merchant = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.ledger.Cache.Invalidate(ctx, wallet)
	u.ledger.Logger.Info("merchant rates updated",
		slog.String("merchant", wallet),
		slog.Uint64("points_ratio", uint64(pointsRatio)),
		slog.Uint64("redemption_rate", uint64(redemptionRate)),
	)
	return merchant, nil
}

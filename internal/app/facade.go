package app

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
	"github.com/polkiloo/merchpay/internal/usecase"
)

// LedgerFacade exposes the use cases to the transport layer.
type LedgerFacade struct {
	auth        *usecase.AuthUseCase
	merchants   *usecase.MerchantUseCase
	points      *usecase.PointsUseCase
	payments    *usecase.PaymentUseCase
	redemptions *usecase.RedemptionUseCase
	store       repository.Store
}

func NewLedgerFacade(
	auth *usecase.AuthUseCase,
	merchants *usecase.MerchantUseCase,
	points *usecase.PointsUseCase,
	payments *usecase.PaymentUseCase,
	redemptions *usecase.RedemptionUseCase,
	store repository.Store,
) *LedgerFacade {
	return &LedgerFacade{
		auth:        auth,
		merchants:   merchants,
		points:      points,
		payments:    payments,
		redemptions: redemptions,
		store:       store,
	}
}

func (f *LedgerFacade) Register(ctx context.Context, wallet, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, wallet, password)
	return token, err
}

func (f *LedgerFacade) Authenticate(ctx context.Context, wallet, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, wallet, password)
	return token, err
}

func (f *LedgerFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *LedgerFacade) RegisterMerchant(ctx context.Context, wallet, name string, pointsRatio, redemptionRate uint32) (*model.Merchant, error) {
	return f.merchants.Register(ctx, wallet, name, pointsRatio, redemptionRate)
}

func (f *LedgerFacade) Merchant(ctx context.Context, wallet string) (*model.Merchant, error) {
	return f.points.Merchant(ctx, wallet)
}

func (f *LedgerFacade) UpdateRates(ctx context.Context, wallet string, pointsRatio, redemptionRate uint32) (*model.Merchant, error) {
	return f.merchants.UpdateRates(ctx, wallet, pointsRatio, redemptionRate)
}

func (f *LedgerFacade) ProcessPayment(ctx context.Context, merchant, customer, token string, amount uint64) (*model.PaymentReceipt, error) {
	return f.payments.ProcessPayment(ctx, merchant, customer, token, amount)
}

func (f *LedgerFacade) Points(ctx context.Context, customer string) (uint32, error) {
	return f.points.Points(ctx, customer)
}

func (f *LedgerFacade) Redeem(ctx context.Context, merchant, customer string, points uint32, rewardToken string) (*model.RedemptionReceipt, error) {
	return f.redemptions.Redeem(ctx, merchant, customer, points, rewardToken)
}

func (f *LedgerFacade) HealthCheck(ctx context.Context) error {
	return f.store.HealthCheck(ctx)
}

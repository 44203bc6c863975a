package usecase

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// PointsUseCase exposes read-only ledger accessors.
type PointsUseCase struct {
	ledger    Ledger
	merchants *MerchantUseCase
}

// NewPointsUseCase constructs PointsUseCase.
func NewPointsUseCase(ledger Ledger, merchants *MerchantUseCase) *PointsUseCase {
	return &PointsUseCase{ledger: ledger.withDefaults(), merchants: merchants}
}

// Points returns the committed balance of customer, 0 when the wallet has
// never been credited. Reading never creates a record.
func (u *PointsUseCase) Points(ctx context.Context, customer string) (uint32, error) {
	balance, found, err := u.ledger.Store.Points().Get(ctx, customer)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return balance, nil
}

// Merchant returns the merchant record for wallet.
func (u *PointsUseCase) Merchant(ctx context.Context, wallet string) (*model.Merchant, error) {
	return u.merchants.Merchant(ctx, wallet)
}

package handlers

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, wallet, password string) (string, error)
	Authenticate(ctx context.Context, wallet, password string) (string, error)
	ParseToken(token string) (string, error)
}

// MerchantFacade exposes the merchant registry.
type MerchantFacade interface {
	RegisterMerchant(ctx context.Context, wallet, name string, pointsRatio, redemptionRate uint32) (*model.Merchant, error)
	Merchant(ctx context.Context, wallet string) (*model.Merchant, error)
	UpdateRates(ctx context.Context, wallet string, pointsRatio, redemptionRate uint32) (*model.Merchant, error)
}

// PaymentFacade settles customer payments.
type PaymentFacade interface {
	ProcessPayment(ctx context.Context, merchant, customer, token string, amount uint64) (*model.PaymentReceipt, error)
}

// PointsFacade reads customer balances.
type PointsFacade interface {
	Points(ctx context.Context, customer string) (uint32, error)
}

// RedemptionFacade exchanges points for reward tokens.
type RedemptionFacade interface {
	Redeem(ctx context.Context, merchant, customer string, points uint32, rewardToken string) (*model.RedemptionReceipt, error)
}

// HealthFacade reports backing storage health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// LedgerFacade aggregates the full set of operations used across handlers.
type LedgerFacade interface {
	AuthFacade
	MerchantFacade
	PaymentFacade
	PointsFacade
	RedemptionFacade
	HealthFacade
}

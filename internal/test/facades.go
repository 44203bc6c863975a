package test

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// MerchantFacadeStub provides controllable behaviour for merchant endpoints.
type MerchantFacadeStub struct {
	RegisterFn    func(context.Context, string, string, uint32, uint32) (*model.Merchant, error)
	MerchantFn    func(context.Context, string) (*model.Merchant, error)
	UpdateRatesFn func(context.Context, string, uint32, uint32) (*model.Merchant, error)
}

// RegisterMerchant delegates to provided function or echoes the request.
func (s MerchantFacadeStub) RegisterMerchant(ctx context.Context, wallet, name string, ratio, rate uint32) (*model.Merchant, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, wallet, name, ratio, rate)
	}
	return &model.Merchant{Wallet: wallet, Name: name, PointsRatio: ratio, RedemptionRate: rate}, nil
}

// Merchant returns a configured merchant record.
func (s MerchantFacadeStub) Merchant(ctx context.Context, wallet string) (*model.Merchant, error) {
	if s.MerchantFn != nil {
		return s.MerchantFn(ctx, wallet)
	}
	return &model.Merchant{Wallet: wallet, Name: "shop", PointsRatio: 10, RedemptionRate: 5}, nil
}

// UpdateRates delegates to provided function or echoes the request.
func (s MerchantFacadeStub) UpdateRates(ctx context.Context, wallet string, ratio, rate uint32) (*model.Merchant, error) {
	if s.UpdateRatesFn != nil {
		return s.UpdateRatesFn(ctx, wallet, ratio, rate)
	}
	return &model.Merchant{Wallet: wallet, Name: "shop", PointsRatio: ratio, RedemptionRate: rate}, nil
}

// PaymentFacadeStub simulates payment settlement.
type PaymentFacadeStub struct {
	ProcessFn func(context.Context, string, string, string, uint64) (*model.PaymentReceipt, error)
}

// ProcessPayment returns a receipt minting ten points per unit by default.
func (s PaymentFacadeStub) ProcessPayment(ctx context.Context, merchant, customer, token string, amount uint64) (*model.PaymentReceipt, error) {
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, merchant, customer, token, amount)
	}
	points := uint32(amount * 10)
	return &model.PaymentReceipt{PointsIssued: points, Balance: points, TotalPointsIssued: points}, nil
}

// PointsFacadeStub simulates balance lookups.
type PointsFacadeStub struct {
	PointsFn func(context.Context, string) (uint32, error)
}

// Points returns the configured balance.
func (s PointsFacadeStub) Points(ctx context.Context, customer string) (uint32, error) {
	if s.PointsFn != nil {
		return s.PointsFn(ctx, customer)
	}
	return 30, nil
}

// RedemptionFacadeStub simulates redemptions.
type RedemptionFacadeStub struct {
	RedeemFn func(context.Context, string, string, uint32, string) (*model.RedemptionReceipt, error)
}

// Redeem returns a receipt at a redemption rate of five by default.
func (s RedemptionFacadeStub) Redeem(ctx context.Context, merchant, customer string, points uint32, rewardToken string) (*model.RedemptionReceipt, error) {
	if s.RedeemFn != nil {
		return s.RedeemFn(ctx, merchant, customer, points, rewardToken)
	}
	return &model.RedemptionReceipt{Reward: uint64(points / 5)}, nil
}

// HealthFacadeStub reports storage health.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// LedgerFacadeStub aggregates facade dependencies for HTTP layer tests.
type LedgerFacadeStub struct {
	AuthFacadeStub
	MerchantFacadeStub
	PaymentFacadeStub
	PointsFacadeStub
	RedemptionFacadeStub
	HealthFacadeStub
}

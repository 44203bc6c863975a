package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/pkg/keylock"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	keylock.New,
	NewAuthUseCase,
	NewMerchantUseCase,
	NewPointsUseCase,
	NewPaymentUseCase,
	NewRedemptionUseCase,
)

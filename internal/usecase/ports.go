package usecase

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// TokenTransferer moves an exact amount of a token between two wallets.
// A refusal must be reported as domainErrors.ErrTransferRejected.
type TokenTransferer interface {
	Transfer(ctx context.Context, transfer model.Transfer) error
}

// Compensator schedules reverse transfers for token movements whose ledger
// commit failed.
//
// Reconcile handles a transfer whose outcome is unknown. original is resent
// under its own ID until the token service answers, and reverse is executed
// only when the service confirms original was applied.
type Compensator interface {
	Enqueue(transfer model.Transfer)
	Reconcile(original, reverse model.Transfer)
}

// MerchantCache serves public merchant lookups.
type MerchantCache interface {
	Fetch(ctx context.Context, wallet string, load func(context.Context) (*model.Merchant, error)) (*model.Merchant, error)
	Invalidate(ctx context.Context, wallet string)
}

// Metrics records ledger activity.
type Metrics interface {
	ObserveOperation(operation string, err error)
	AddPointsIssued(points uint32)
	AddPointsRedeemed(points uint32)
}

// Operation names reported to Metrics.
const (
	OperationRegister    = "register"
	OperationUpdateRates = "update_rates"
	OperationPayment     = "process_payment"
	OperationRedeem      = "redeem"
)

// IDGenerator returns unique transfer identifiers.
type IDGenerator func() string

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// PaymentUseCase settles a customer payment and mints points for it.
type PaymentUseCase struct {
	settlement
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(ledger Ledger, tokens TokenTransferer, compensator Compensator) *PaymentUseCase {
	return &PaymentUseCase{settlement: newSettlement(ledger, tokens, compensator)}
}

// ProcessPayment transfers amount of token from customer to merchant and
// credits the customer with amount*points_ratio points. Every failure leaves
// the ledger untouched.
func (u *PaymentUseCase) ProcessPayment(ctx context.Context, merchantWallet, customerWallet, token string, amount uint64) (receipt *model.PaymentReceipt, err error) {
	defer func() { u.ledger.Metrics.ObserveOperation(OperationPayment, err) }()

	if err := u.ledger.Authorizer.RequireAuth(ctx, customerWallet); err != nil {
		return nil, err
	}

	unlock := u.ledger.Locks.Lock(merchantWallet, customerWallet)
	defer unlock()

	var moved *model.Transfer
	err = u.ledger.Store.WithinTransaction(ctx, func(ctx context.Context, tx repository.Scope) error {
		merchant, err := tx.Merchants().Get(ctx, merchantWallet)
		if err != nil {
			return err
		}

		points, err := mulPoints(amount, merchant.PointsRatio)
		if err != nil {
			return err
		}
		total, err := addPoints(merchant.TotalPointsIssued, points)
		if err != nil {
			return err
		}
		balance, _, err := tx.Points().Get(ctx, customerWallet)
		if err != nil {
			return err
		}
		newBalance, err := addPoints(balance, points)
		if err != nil {
			return err
		}

		transfer := model.Transfer{
			ID:     u.newID(),
			Token:  token,
			From:   customerWallet,
			To:     merchant.Wallet,
			Amount: amount,
			Reason: model.TransferReasonPayment,
		}
		if err := u.transfer(ctx, transfer); err != nil {
			return err
		}
		moved = &transfer

		merchant.TotalPointsIssued = total
		merchant.UpdatedAt = u.now().UTC()
		if err := tx.Merchants().Update(ctx, merchant); err != nil {
			return err
		}
		if err := tx.Points().Set(ctx, customerWallet, newBalance); err != nil {
			return err
		}

		receipt = &model.PaymentReceipt{
			PointsIssued:      points,
			Balance:           newBalance,
			TotalPointsIssued: total,
		}
		return nil
	})
	if err != nil {
		if moved != nil {
			u.compensate(*moved, err)
		}
		return nil, err
	}

	u.ledger.Cache.Invalidate(ctx, merchantWallet)
	u.ledger.Metrics.AddPointsIssued(receipt.PointsIssued)
	u.ledger.Logger.Info("payment processed",
		slog.String("merchant", merchantWallet),
		slog.String("customer", customerWallet),
		slog.String("token", token),
		slog.Uint64("amount", amount),
		slog.Uint64("points_issued", uint64(receipt.PointsIssued)),
	)
	return receipt, nil
}

// transfer delegates to the token collaborator. Any failure is reported as
// ErrTransferRejected with the cause kept in the chain. A failure that is
// neither a refusal nor throttling leaves the outcome unknown, so the
// transfer is handed to reconciliation.
func (s settlement) transfer(ctx context.Context, transfer model.Transfer) error {
	err := s.tokens.Transfer(ctx, transfer)
	if err == nil {
		return nil
	}
	s.ledger.Logger.Warn("token transfer failed",
		slog.String("transfer_id", transfer.ID),
		slog.String("reason", string(transfer.Reason)),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, domainErrors.ErrTransferRejected) {
		return err
	}
	if !errors.Is(err, domainErrors.ErrTransferThrottled) {
		s.reconcile(transfer, err)
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrTransferRejected, err)
}

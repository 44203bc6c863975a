package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/domain/repository"
)

// RedemptionUseCase exchanges customer points for a reward paid by the merchant.
type RedemptionUseCase struct {
	settlement
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(ledger Ledger, tokens TokenTransferer, compensator Compensator) *RedemptionUseCase {
	return &RedemptionUseCase{settlement: newSettlement(ledger, tokens, compensator)}
}

// Redeem debits points from customer and pays floor(points/redemption_rate)
// of rewardToken from the merchant. The reward is computed and checked before
// any transfer, and the debit happens only after the transfer succeeded.
func (u *RedemptionUseCase) Redeem(ctx context.Context, merchantWallet, customerWallet string, points uint32, rewardToken string) (receipt *model.RedemptionReceipt, err error) {
	defer func() { u.ledger.Metrics.ObserveOperation(OperationRedeem, err) }()

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

		balance, found, err := tx.Points().Get(ctx, customerWallet)
		if err != nil {
			return err
		}
		if !found {
			return domainErrors.ErrNoPointsFound
		}
		if balance < points {
			return domainErrors.ErrInsufficientPoints
		}
		if merchant.RedemptionRate == 0 {
			return domainErrors.ErrInvalidRate
		}

		reward := uint64(points / merchant.RedemptionRate)
		if reward == 0 {
			return domainErrors.ErrZeroReward
		}

		transfer := model.Transfer{
			ID:     u.newID(),
			Token:  rewardToken,
			From:   merchant.Wallet,
			To:     customerWallet,
			Amount: reward,
			Reason: model.TransferReasonReward,
		}
		if err := u.transfer(ctx, transfer); err != nil {
			return err
		}
		moved = &transfer

		remaining := balance - points
		if err := tx.Points().Set(ctx, customerWallet, remaining); err != nil {
			return err
		}

		receipt = &model.RedemptionReceipt{Reward: reward, Balance: remaining}
		return nil
	})
	if err != nil {
		if moved != nil {
			u.compensate(*moved, err)
		}
		return nil, err
	}

	u.ledger.Metrics.AddPointsRedeemed(points)
	u.ledger.Logger.Info("points redeemed",
		slog.String("merchant", merchantWallet),
		slog.String("customer", customerWallet),
		slog.String("reward_token", rewardToken),
		slog.Uint64("points", uint64(points)),
		slog.Uint64("reward", receipt.Reward),
	)
	return receipt, nil
}

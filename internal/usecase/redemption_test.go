package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/storage/memory"
	testhelpers "github.com/polkiloo/merchpay/internal/test"
)

func seededFixture(t *testing.T, balance uint32) *fixture {
	t.Helper()
	f := newFixture(t)
	f.registerMerchant(t, merchantWallet, 10, 5)
	if err := f.mem.Points().Set(context.Background(), customerWallet, balance); err != nil {
		t.Fatalf("seed balance: %v", err)
	}
	return f
}

func TestRedemptionUseCaseRedeem(t *testing.T) {
	f := seededFixture(t, 30)

	receipt, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, 27, rewardToken)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if receipt.Reward != 5 || receipt.Balance != 3 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	transfers := f.tokens.Transfers()
	if len(transfers) != 1 {
		t.Fatalf("expected one transfer, got %d", len(transfers))
	}
	tr := transfers[0]
	if tr.From != merchantWallet || tr.To != customerWallet || tr.Amount != 5 || tr.Token != rewardToken || tr.Reason != model.TransferReasonReward {
		t.Fatalf("unexpected transfer %+v", tr)
	}
	if got := f.balance(t, customerWallet); got != 3 {
		t.Fatalf("expected balance 3, got %d", got)
	}
	if f.metrics.redeemed != 27 {
		t.Fatalf("expected 27 redeemed points recorded, got %d", f.metrics.redeemed)
	}
}

func TestRedemptionUseCaseArithmetic(t *testing.T) {
	cases := []struct {
		points uint32
		rate   uint32
		reward uint64
	}{
		{25, 5, 5},
		{29, 5, 5},
		{30, 30, 1},
		{100, 1, 100},
		{7, 3, 2},
	}

	for _, tc := range cases {
		f := newFixture(t)
		f.registerMerchant(t, merchantWallet, 1, tc.rate)
		if err := f.mem.Points().Set(context.Background(), customerWallet, tc.points); err != nil {
			t.Fatalf("seed: %v", err)
		}
		receipt, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, tc.points, rewardToken)
		if err != nil {
			t.Fatalf("redeem %d/%d: %v", tc.points, tc.rate, err)
		}
		if receipt.Reward != tc.reward {
			t.Fatalf("expected reward %d for %d/%d, got %d", tc.reward, tc.points, tc.rate, receipt.Reward)
		}
		if f.tokens.Transfers()[0].Amount != tc.reward {
			t.Fatalf("expected transferred amount %d", tc.reward)
		}
	}
}

func TestRedemptionUseCaseRejections(t *testing.T) {
	cases := []struct {
		name     string
		ctx      context.Context
		merchant string
		points   uint32
		seed     *uint32
		want     error
	}{
		{"no session", context.Background(), merchantWallet, 10, ptr(30), domainErrors.ErrUnauthorized},
		{"merchant session", as(merchantWallet), merchantWallet, 10, ptr(30), domainErrors.ErrUnauthorized},
		{"unknown merchant", as(customerWallet), "GUNKNOWN", 10, ptr(30), domainErrors.ErrNotRegistered},
		{"no record", as(customerWallet), merchantWallet, 10, nil, domainErrors.ErrNoPointsFound},
		{"zero record", as(customerWallet), merchantWallet, 10, ptr(0), domainErrors.ErrInsufficientPoints},
		{"insufficient", as(customerWallet), merchantWallet, 31, ptr(30), domainErrors.ErrInsufficientPoints},
		{"zero reward", as(customerWallet), merchantWallet, 4, ptr(30), domainErrors.ErrZeroReward},
		{"zero points", as(customerWallet), merchantWallet, 0, ptr(30), domainErrors.ErrZeroReward},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.registerMerchant(t, merchantWallet, 10, 5)
			if tc.seed != nil {
				if err := f.mem.Points().Set(context.Background(), customerWallet, *tc.seed); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}

			if _, err := f.redemptions.Redeem(tc.ctx, tc.merchant, customerWallet, tc.points, rewardToken); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.tokens.Transfers()) != 0 {
				t.Fatalf("expected no transfer")
			}
			balance, found, _ := f.mem.Points().Get(context.Background(), customerWallet)
			if (tc.seed == nil) == found {
				t.Fatalf("record presence changed")
			}
			if tc.seed != nil && balance != *tc.seed {
				t.Fatalf("expected balance %d, got %d", *tc.seed, balance)
			}
		})
	}
}

func TestRedemptionUseCaseTransferRejectedKeepsPoints(t *testing.T) {
	f := seededFixture(t, 30)
	f.tokens.Err = fmt.Errorf("%w: merchant treasury empty", domainErrors.ErrTransferRejected)

	if _, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, 25, rewardToken); !errors.Is(err, domainErrors.ErrTransferRejected) {
		t.Fatalf("expected ErrTransferRejected, got %v", err)
	}
	if got := f.balance(t, customerWallet); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}
	if len(f.compensator.Reconciliations()) != 0 {
		t.Fatalf("rejected transfers must not be reconciled")
	}
}

func TestRedemptionUseCaseReconcilesUnknownTransferOutcome(t *testing.T) {
	f := seededFixture(t, 30)
	f.tokens.Err = errors.New("token service error: 502 Bad Gateway")

	if _, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, 25, rewardToken); !errors.Is(err, domainErrors.ErrTransferRejected) {
		t.Fatalf("expected ErrTransferRejected, got %v", err)
	}
	if got := f.balance(t, customerWallet); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}

	pending := f.compensator.Reconciliations()
	if len(pending) != 1 {
		t.Fatalf("expected one reconciliation, got %d", len(pending))
	}
	if r := pending[0].Reverse; r.From != customerWallet || r.To != merchantWallet || r.Amount != 5 || r.Token != rewardToken {
		t.Fatalf("unexpected reverse transfer %+v", r)
	}
}

func TestRedemptionUseCaseRejectsZeroRateMerchant(t *testing.T) {
	mem := memory.New()
	f := newFixtureWithStore(t, mem, mem)
	ctx := context.Background()
	if err := mem.Merchants().Create(ctx, &model.Merchant{Wallet: merchantWallet, PointsRatio: 1}); err != nil {
		t.Fatalf("seed merchant: %v", err)
	}
	if err := mem.Points().Set(ctx, customerWallet, 10); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	if _, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, 10, rewardToken); !errors.Is(err, domainErrors.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestRedemptionUseCaseCompensatesFailedCommit(t *testing.T) {
	mem := memory.New()
	commitErr := errors.New("commit failed")
	f := newFixtureWithStore(t, mem, testhelpers.CommitFailingStore{Store: mem, Err: commitErr})
	ctx := context.Background()
	if err := mem.Merchants().Create(ctx, &model.Merchant{Wallet: merchantWallet, PointsRatio: 10, RedemptionRate: 5}); err != nil {
		t.Fatalf("seed merchant: %v", err)
	}
	if err := mem.Points().Set(ctx, customerWallet, 30); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	if _, err := f.redemptions.Redeem(as(customerWallet), merchantWallet, customerWallet, 25, rewardToken); !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}

	scheduled := f.compensator.Scheduled()
	if len(scheduled) != 1 {
		t.Fatalf("expected one compensation, got %d", len(scheduled))
	}
	if scheduled[0].From != customerWallet || scheduled[0].To != merchantWallet || scheduled[0].Amount != 5 {
		t.Fatalf("unexpected compensation %+v", scheduled[0])
	}
	if got := f.balance(t, customerWallet); got != 30 {
		t.Fatalf("expected balance 30, got %d", got)
	}
}

func ptr(v uint32) *uint32 { return &v }

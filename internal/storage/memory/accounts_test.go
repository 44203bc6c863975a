package memory

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	accounts := New().Accounts()

	first, err := accounts.Create(ctx, "GCUSTOMER", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID != 1 || first.CreatedAt.IsZero() {
		t.Fatalf("unexpected account %+v", first)
	}
	second, err := accounts.Create(ctx, "GMERCHANT", "hash")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected sequential ids, got %d", second.ID)
	}

	if _, err := accounts.Create(ctx, "GCUSTOMER", "other"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := accounts.GetByWallet(ctx, "GCUSTOMER")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "hash" {
		t.Fatalf("unexpected hash %q", got.PasswordHash)
	}

	if _, err := accounts.GetByWallet(ctx, "GUNKNOWN"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package repository

import (
	"context"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

// MerchantRepository is the registry scope holding merchant records.
type MerchantRepository interface {
	Exists(ctx context.Context, wallet string) (bool, error)
	Get(ctx context.Context, wallet string) (*model.Merchant, error)
	Create(ctx context.Context, merchant *model.Merchant) error
	Update(ctx context.Context, merchant *model.Merchant) error
}

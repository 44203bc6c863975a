package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/merchpay/internal/config"
	"github.com/polkiloo/merchpay/internal/usecase"
)

// Module wires the merchant cache. Redis is used only when an address is configured.
var Module = fx.Options(
	fx.Provide(newMerchantCache),
	fx.Provide(func(c *MerchantCache) usecase.MerchantCache { return c }),
	fx.Invoke(registerLifecycle),
)

type cacheParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var newRedisClient = func(addr string) redisClient {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func newMerchantCache(p cacheParams) (*MerchantCache, error) {
	if p.Config.RedisAddress == "" {
		return NewMerchantCache(nil, p.Config.MerchantCacheTTL, p.Logger), nil
	}

	client := newRedisClient(p.Config.RedisAddress)
	if err := client.Ping(p.Ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewMerchantCache(client, p.Config.MerchantCacheTTL, p.Logger), nil
}

func registerLifecycle(lc fx.Lifecycle, cache *MerchantCache) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
}

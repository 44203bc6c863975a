package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/polkiloo/merchpay/internal/domain/model"
)

const keyPrefix = "merchpay:merchant:"

// redisClient is the subset of *redis.Client used by MerchantCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type cachedMerchant struct {
	Wallet            string    `json:"wallet"`
	Name              string    `json:"name"`
	PointsRatio       uint32    `json:"points_ratio"`
	RedemptionRate    uint32    `json:"redemption_rate"`
	TotalPointsIssued uint32    `json:"total_points_issued"`
	RegisteredAt      time.Time `json:"registered_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MerchantCache keeps public merchant records in Redis. Concurrent misses for
// the same wallet share one load. Without a client every lookup goes to the loader.
//
// Every Invalidate bumps a per-key generation. A load only writes its result
// back when the generation is unchanged since the load began, so a record read
// before a write commits is never cached after that write is invalidated.
type MerchantCache struct {
	client redisClient
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewMerchantCache builds a cache over client. client may be nil.
func NewMerchantCache(client redisClient, ttl time.Duration, logger *slog.Logger) *MerchantCache {
	return &MerchantCache{
		client:      client,
		ttl:         ttl,
		logger:      logger,
		generations: make(map[string]uint64),
	}
}

// Fetch returns the cached record for wallet or calls load and caches its result.
// Load errors are never cached.
func (c *MerchantCache) Fetch(ctx context.Context, wallet string, load func(context.Context) (*model.Merchant, error)) (*model.Merchant, error) {
	key := keyPrefix + wallet

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached cachedMerchant
			if err := json.Unmarshal(raw, &cached); err == nil {
				m := cached.toModel()
				return &m, nil
			}
			c.logger.Warn("drop malformed merchant cache entry", slog.String("wallet", wallet))
		case !errors.Is(err, redis.Nil):
			c.logger.Warn("merchant cache read failed", slog.String("wallet", wallet), slog.String("error", err.Error()))
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		gen := c.generation(key)
		m, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, gen, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	m := *v.(*model.Merchant)
	return &m, nil
}

// Invalidate drops the entry for wallet and discards the result of any load
// still in flight for it.
func (c *MerchantCache) Invalidate(ctx context.Context, wallet string) {
	key := keyPrefix + wallet
	c.mu.Lock()
	c.generations[key]++
	c.mu.Unlock()

	c.group.Forget(key)
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("merchant cache invalidation failed", slog.String("wallet", wallet), slog.String("error", err.Error()))
	}
}

// Close releases the Redis connection.
func (c *MerchantCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *MerchantCache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// store writes m under key unless key was invalidated after gen was taken.
// The check and the write share the lock Invalidate bumps under, so a write
// either lands before the bump and is removed by the following Del, or is skipped.
func (c *MerchantCache) store(ctx context.Context, key string, gen uint64, m *model.Merchant) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(fromModel(m))
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		c.logger.Debug("skip caching merchant loaded before invalidation", slog.String("key", key))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("merchant cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func fromModel(m *model.Merchant) cachedMerchant {
	return cachedMerchant{
		Wallet:            m.Wallet,
		Name:              m.Name,
		PointsRatio:       m.PointsRatio,
		RedemptionRate:    m.RedemptionRate,
		TotalPointsIssued: m.TotalPointsIssued,
		RegisteredAt:      m.RegisteredAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (c cachedMerchant) toModel() model.Merchant {
	return model.Merchant{
		Wallet:            c.Wallet,
		Name:              c.Name,
		PointsRatio:       c.PointsRatio,
		RedemptionRate:    c.RedemptionRate,
		TotalPointsIssued: c.TotalPointsIssued,
		RegisteredAt:      c.RegisteredAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/perfectcherry/cherry-server/internal/config"
	"github.com/redis/go-redis/v9"
)

// pendingCountTTL bounds staleness of the pending-interest counters; the DB
// remains the source of truth on a miss.
const pendingCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForPendingCount generates the Redis key for a user's count of pending
// interests awaiting an answer.
func (c *RedisCache) KeyForPendingCount(userID uint64) string {
	return fmt.Sprintf("interests:pending:%d", userID)
}

// SetPendingCount stores a counter value with a fresh TTL.
func (c *RedisCache) SetPendingCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForPendingCount(userID), count, pendingCountTTL).Err()
}

// GetPendingCount returns (count, found). A miss is not an error.
func (c *RedisCache) GetPendingCount(ctx context.Context, userID uint64) (int64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForPendingCount(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, c.KeyForPendingCount(userID), pendingCountTTL).Err()

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// IncrPendingCount bumps the counter after a new pending interest.
func (c *RedisCache) IncrPendingCount(ctx context.Context, userID uint64) error {
	key := c.KeyForPendingCount(userID)
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, pendingCountTTL).Err()
}

// DecrPendingCount drops the counter after an accept/decline.
func (c *RedisCache) DecrPendingCount(ctx context.Context, userID uint64) error {
	key := c.KeyForPendingCount(userID)
	if err := c.Client.Decr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, pendingCountTTL).Err()
}

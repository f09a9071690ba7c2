// Package redis caches computed availability results. Invalidation bumps a
// per-restaurant version counter instead of scanning keys, so stale entries
// simply age out via TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: cfg.CacheTTL}
}

func (c *AvailabilityCache) Get(ctx context.Context, restaurantID uuid.UUID, date string, partySize int) (*queries.AvailabilityResult, bool, error) {
	key, err := c.resultKey(ctx, restaurantID, date, partySize)
	if err != nil {
		return nil, false, err
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result queries.AvailabilityResult
	if err := json.Unmarshal(payload, &result); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, false, nil
	}
	return &result, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, result queries.AvailabilityResult) error {
	key, err := c.resultKey(ctx, result.RestaurantID, result.Date, result.PartySize)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// InvalidateRestaurant bumps the restaurant's version counter; every cached
// result key embeds the version, so old entries become unreachable at once.
func (c *AvailabilityCache) InvalidateRestaurant(ctx context.Context, restaurantID uuid.UUID) error {
	return c.client.Incr(ctx, versionKey(restaurantID)).Err()
}

func (c *AvailabilityCache) resultKey(ctx context.Context, restaurantID uuid.UUID, date string, partySize int) (string, error) {
	version, err := c.client.Get(ctx, versionKey(restaurantID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return "", err
		}
		version = "0"
	}
	return fmt.Sprintf("availability:%s:v%s:%s:%d", restaurantID, version, date, partySize), nil
}

func versionKey(restaurantID uuid.UUID) string {
	return "availability:version:" + restaurantID.String()
}

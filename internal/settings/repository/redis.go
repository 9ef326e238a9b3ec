package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const settingsKey = "wms:settings:document"

type RedisCache struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

func NewRedisCache(cache *cache.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{cache: cache, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*model.Settings, bool, error) {
	val, err := c.cache.Client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var doc model.Settings
	if err := json.Unmarshal(val, &doc); err != nil {
		return nil, false, err
	}
	return &doc, true, nil
}

func (c *RedisCache) Set(ctx context.Context, doc *model.Settings) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.cache.Client.Set(ctx, settingsKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.cache.Client.Del(ctx, settingsKey).Err()
}

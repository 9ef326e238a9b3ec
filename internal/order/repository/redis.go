package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-wms-service/pkg/cache"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	idempotencyPrefix = "wms:order:idem:"
	idempotencyTTL    = 24 * time.Hour
)

// RedisIdempotency reserves order idempotency keys with SETNX.
type RedisIdempotency struct {
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewRedisIdempotency(cache *cache.RedisClient, log logger.ZapLogger) *RedisIdempotency {
	return &RedisIdempotency{cache: cache, logger: log}
}

func (r *RedisIdempotency) Reserve(ctx context.Context, key string) (string, bool, error) {
	token := uuid.New().String()
	ok, err := r.cache.AcquireLock(ctx, idempotencyPrefix+key, token, idempotencyTTL)
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (r *RedisIdempotency) Release(ctx context.Context, key, token string) {
	if err := r.cache.ReleaseLock(ctx, idempotencyPrefix+key, token); err != nil {
		r.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

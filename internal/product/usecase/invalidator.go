package usecase

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/pkg/cache"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
)

// ListCacheInvalidator drops cached product lists whenever stock moves.
type ListCacheInvalidator struct {
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewListCacheInvalidator(cache *cache.RedisClient, log logger.ZapLogger) *ListCacheInvalidator {
	return &ListCacheInvalidator{cache: cache, logger: log}
}

func (i *ListCacheInvalidator) StockChanged(ctx context.Context, productID string) {
	if i.cache == nil {
		return
	}
	go invalidateListCache(context.Background(), i.cache, i.logger)
}

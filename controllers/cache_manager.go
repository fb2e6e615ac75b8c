package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ProductCachePrefix     = "product:detail:"
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 5 * time.Minute
)

// CacheManager handles Redis caching for the product catalog. Listings are
// versioned: mutations bump the version key instead of hunting down every
// list key.
type CacheManager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheManager(redis *redis.Client, logger *zap.Logger) *CacheManager {
	return &CacheManager{
		redis:  redis,
		ttl:    DefaultCacheTTL,
		logger: logger,
	}
}

// GetProductList retrieves a cached product list for the given filters.
func (cm *CacheManager) GetProductList(ctx context.Context, filters repository.ProductFilters) ([]*models.Product, bool) {
	version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err != nil {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listCacheKey(version, filters)).Result()
	if err != nil {
		return nil, false
	}

	var products []*models.Product
	if err := json.Unmarshal([]byte(cached), &products); err != nil {
		cm.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductListAsync caches a product list without blocking the request.
func (cm *CacheManager) SetProductListAsync(filters repository.ProductFilters, products []*models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
		if err == redis.Nil {
			version, err = cm.redis.Incr(ctx, CacheVersionKey).Result()
		}
		if err != nil {
			return
		}

		payload, err := json.Marshal(products)
		if err != nil {
			return
		}
		cm.redis.Set(ctx, cm.listCacheKey(version, filters), payload, cm.ttl)
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	cached, err := cm.redis.Get(ctx, ProductCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a product detail without blocking the request.
func (cm *CacheManager) SetProductAsync(product *models.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(product)
		if err != nil {
			return
		}
		cm.redis.Set(ctx, ProductCachePrefix+product.ID.String(), payload, cm.ttl)
	}()
}

// Invalidate drops a product's detail entry and bumps the list version
// after an admin mutation.
func (cm *CacheManager) Invalidate(ctx context.Context, productID string) {
	if productID != "" {
		if err := cm.redis.Del(ctx, ProductCachePrefix+productID).Err(); err != nil {
			cm.logger.Warn("Failed to drop product cache entry", zap.Error(err))
		}
	}
	if err := cm.redis.Incr(ctx, CacheVersionKey).Err(); err != nil {
		cm.logger.Warn("Failed to bump product cache version", zap.Error(err))
	}
}

func (cm *CacheManager) listCacheKey(version int64, filters repository.ProductFilters) string {
	featured := "any"
	if filters.Featured != nil {
		featured = fmt.Sprintf("%t", *filters.Featured)
	}
	return fmt.Sprintf("%s%d:cat=%s:feat=%s:sort=%s",
		ProductListCachePrefix, version, filters.Category, featured, filters.Sort)
}

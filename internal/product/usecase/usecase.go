package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/category"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/product"
	"github.com/fekuna/omnipos-wms-service/internal/product/dto"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation"
	"github.com/fekuna/omnipos-wms-service/pkg/cache"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/fekuna/omnipos-wms-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	listCachePrefix  = "wms:products:list:"
	listCacheTTL     = 5 * time.Minute
	indexName        = "wms-products"
	openingReason    = "initial-stock"
	indexMappingJSON = `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"sku": { "type": "keyword" },
				"category_id": { "type": "keyword" },
				"category_name": { "type": "text" },
				"price": { "type": "double" },
				"is_active": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
)

type productUseCase struct {
	repo     product.Repository
	catRepo  category.Repository
	rackRepo racklocation.Repository
	cache    *cache.RedisClient
	es       *search.Client
	logger   logger.ZapLogger
}

// NewProductUseCase wires the catalog. cache and es may be nil.
func NewProductUseCase(
	repo product.Repository,
	catRepo category.Repository,
	rackRepo racklocation.Repository,
	cache *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:     repo,
		catRepo:  catRepo,
		rackRepo: rackRepo,
		cache:    cache,
		es:       es,
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	switch {
	case name == "":
		return nil, apperror.Validation("name", "is required")
	case sku == "":
		return nil, apperror.Validation("sku", "is required")
	case input.CategoryID == "":
		return nil, apperror.Validation("category_id", "is required")
	case input.Price.IsNegative():
		return nil, apperror.Validation("price", "must not be negative")
	case input.Stock < 0:
		return nil, apperror.Validation("stock", "must not be negative")
	case input.MinStock < 0:
		return nil, apperror.Validation("min_stock", "must not be negative")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, sku, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.Conflict("product with SKU %s already exists", sku)
	}

	if err := uc.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	var rackID *string
	if input.RackLocationID != "" {
		if err := uc.ensureRackLocation(ctx, input.RackLocationID); err != nil {
			return nil, err
		}
		id := input.RackLocationID
		rackID = &id
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:            sku,
		Name:           name,
		CategoryID:     input.CategoryID,
		RackLocationID: rackID,
		Price:          input.Price.Round(2),
		MinStock:       input.MinStock,
		IsActive:       true,
	}
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	}
	if input.ImageURL != "" {
		img := input.ImageURL
		p.ImageURL = &img
	}
	if input.UserID != "" {
		createdBy := input.UserID
		p.CreatedBy = &createdBy
	}

	var opening *model.InventoryMovement
	if input.Stock > 0 {
		opening = &model.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: p.ID,
			Type:      model.MovementIn,
			Quantity:  input.Stock,
			Reason:    openingReason,
			CreatedBy: input.UserID,
			CreatedAt: now,
		}
	}

	if err := uc.repo.Create(ctx, p, opening); err != nil {
		return nil, err
	}

	uc.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU), zap.Int("stock", p.Stock))

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p.ID)

	return uc.GetProduct(ctx, p.ID)
}

func (uc *productUseCase) ensureCategory(ctx context.Context, id string) error {
	c, err := uc.catRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.NotFound("category", id)
	}
	return nil
}

func (uc *productUseCase) ensureRackLocation(ctx context.Context, id string) error {
	loc, err := uc.rackRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return apperror.NotFound("rack location", id)
	}
	return nil
}

type searchDocument struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Price        float64   `json:"price"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (uc *productUseCase) syncToElastic(ctx context.Context, id string) {
	if uc.es == nil {
		return
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil || p == nil {
		uc.logger.Error("failed to load product for indexing", zap.String("product_id", id), zap.Error(err))
		return
	}

	// Lazily ensure the index exists so a fresh cluster works without a migration step.
	if err := uc.es.CreateIndex(ctx, indexName, indexMappingJSON); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}

	doc := searchDocument{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Price:      p.Price.InexactFloat64(),
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Category != nil {
		doc.CategoryName = p.Category.Name
	}

	if err := uc.es.Index(ctx, indexName, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
				var result cachedList
				if err := json.Unmarshal([]byte(val), &result); err == nil {
					return result.Products, result.Count, nil
				}
			}
		}
	}

	if filters.Search != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}
	return products, count, nil
}

// searchElastic resolves matching ids from the index and loads the rows from
// the store, so stock figures are never served stale from the index.
func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.Search),
				"fields": []string{"name^3", "sku", "category_name", "description"},
			},
		},
	}
	if !filters.IncludeArchived {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": true}})
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}

	q := map[string]interface{}{
		"query":   map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"_source": false,
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	products, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	invalidateListCache(ctx, uc.cache, uc.logger)
}

func invalidateListCache(ctx context.Context, c *cache.RedisClient, log logger.ZapLogger) {
	if c == nil {
		return
	}
	if err := c.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		log.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, apperror.Validation("sku", "must not be empty")
		}
		if sku != p.SKU {
			unique, err := uc.repo.IsSKUUnique(ctx, sku, p.ID)
			if err != nil {
				return nil, err
			}
			if !unique {
				return nil, apperror.Conflict("product with SKU %s already exists", sku)
			}
		}
		p.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name", "must not be empty")
		}
		p.Name = name
	}
	if input.Description != nil {
		desc := *input.Description
		p.Description = &desc
	}
	if input.CategoryID != nil && *input.CategoryID != p.CategoryID {
		if err := uc.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *input.CategoryID
	}
	if input.RackLocationID != nil {
		if *input.RackLocationID == "" {
			p.RackLocationID = nil
		} else {
			if err := uc.ensureRackLocation(ctx, *input.RackLocationID); err != nil {
				return nil, err
			}
			rackID := *input.RackLocationID
			p.RackLocationID = &rackID
		}
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.Validation("price", "must not be negative")
		}
		p.Price = input.Price.Round(2)
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, apperror.Validation("min_stock", "must not be negative")
		}
		p.MinStock = *input.MinStock
	}
	if input.ImageURL != nil {
		img := *input.ImageURL
		p.ImageURL = &img
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p.ID)

	return uc.GetProduct(ctx, p.ID)
}

// DeleteProduct archives the product. Its ledger history stays intact.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}

	if err := uc.repo.Archive(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Product archived", zap.String("product_id", id))

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), id)

	return nil
}

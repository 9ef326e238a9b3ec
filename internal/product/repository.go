package product

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/product/dto"
)

type Repository interface {
	// Create inserts the product with zero stock and, when opening is non-nil,
	// applies the opening IN movement in the same transaction.
	Create(ctx context.Context, product *model.Product, opening *model.InventoryMovement) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update writes every column except stock.
	Update(ctx context.Context, product *model.Product) error
	Archive(ctx context.Context, id string) error

	IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error)
}

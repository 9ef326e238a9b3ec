package order

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
)

type Repository interface {
	// Create persists the order and its items and applies the OUT movements in
	// order, all in one transaction. Any failed stock guard rolls back everything.
	Create(ctx context.Context, order *model.Order, movements []*model.InventoryMovement) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	// UpdateStatus moves the order from status `from` to order.Status and applies
	// movements in the same transaction. It fails with apperror.ErrConflict when
	// the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, order *model.Order, from model.OrderStatus, movements []*model.InventoryMovement) error
}

// IdempotencyStore reserves client supplied idempotency keys.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string)
}

// ProductReader resolves the products an order refers to.
type ProductReader interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

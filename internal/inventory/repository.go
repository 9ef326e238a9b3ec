package inventory

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
)

type Repository interface {
	// ApplyMovement checks sufficiency, updates product stock and appends the
	// movement as one atomic step. It fills StockBefore/StockAfter on movement.
	ApplyMovement(ctx context.Context, movement *model.InventoryMovement) (*model.Product, error)

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
	FindDrift(ctx context.Context) ([]model.StockDrift, error)
}

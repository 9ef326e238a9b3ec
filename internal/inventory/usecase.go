package inventory

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
)

type UseCase interface {
	ApplyMovement(ctx context.Context, input *dto.ApplyMovementInput) (*model.InventoryMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
	Reconcile(ctx context.Context) ([]model.StockDrift, error)
}

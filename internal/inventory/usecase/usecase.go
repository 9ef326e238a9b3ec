package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/inventory"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockListener is told about every committed movement, e.g. to drop cached product lists.
type StockListener interface {
	StockChanged(ctx context.Context, productID string)
}

type inventoryUseCase struct {
	repo      inventory.Repository
	listeners []StockListener
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewInventoryUseCase(repo inventory.Repository, log logger.ZapLogger, listeners ...StockListener) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		listeners: listeners,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *inventoryUseCase) ApplyMovement(ctx context.Context, input *dto.ApplyMovementInput) (*model.InventoryMovement, error) {
	if input.ProductID == "" {
		return nil, apperror.Validation("product_id", "is required")
	}
	if !input.Type.Valid() {
		return nil, apperror.Validation("type", "must be IN or OUT")
	}
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity", "must be a positive integer")
	}

	var refID *string
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}

	movement := &model.InventoryMovement{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		Reason:      input.Reason,
		ReferenceID: refID,
		CreatedBy:   input.UserID,
		CreatedAt:   uc.now(),
	}

	p, err := uc.repo.ApplyMovement(ctx, movement)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Stock movement applied",
		zap.String("product_id", p.ID),
		zap.String("type", string(movement.Type)),
		zap.Int("quantity", movement.Quantity),
		zap.Int("stock", p.Stock),
		zap.String("reason", movement.Reason),
	)
	if movement.Type == model.MovementOut && p.IsLowStock() && movement.StockBefore > p.MinStock {
		uc.logger.Warn("Product reached minimum stock",
			zap.String("product_id", p.ID),
			zap.String("sku", p.SKU),
			zap.Int("stock", p.Stock),
			zap.Int("min_stock", p.MinStock),
		)
	}

	for _, l := range uc.listeners {
		l.StockChanged(ctx, p.ID)
	}

	movement.Product = &model.ProductRef{Name: p.Name, SKU: p.SKU}
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	if filters.MovementType != "" && !model.MovementType(filters.MovementType).Valid() {
		return nil, 0, apperror.Validation("type", "must be IN or OUT")
	}
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) Reconcile(ctx context.Context) ([]model.StockDrift, error) {
	drift, err := uc.repo.FindDrift(ctx)
	if err != nil {
		return nil, err
	}
	if len(drift) > 0 {
		uc.logger.Warn("Ledger drift detected", zap.Int("products", len(drift)))
	}
	return drift, nil
}

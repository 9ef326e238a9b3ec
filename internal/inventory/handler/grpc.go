package handler

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/inventory"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/rpc/wmsv1"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type InventoryHandler struct {
	wmsv1.UnimplementedInventoryServiceServer
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) ApplyMovement(ctx context.Context, req *wmsv1.ApplyMovementRequest) (*wmsv1.Movement, error) {
	u, ok := auth.GetUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	if u.Role != auth.RoleAdmin && u.Role != auth.RoleStaff {
		return nil, apperror.ToGRPC(apperror.ErrForbidden)
	}

	m, err := h.uc.ApplyMovement(ctx, &dto.ApplyMovementInput{
		ProductID: req.ProductID,
		Type:      model.MovementType(strings.ToUpper(req.Type)),
		Quantity:  int(req.Quantity),
		Reason:    req.Reason,
		UserID:    u.UserID,
	})
	if err != nil {
		h.logger.Debug("ApplyMovement rejected", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, apperror.ToGRPC(err)
	}
	return mapMovementToProto(m), nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *wmsv1.ListMovementsRequest) (*wmsv1.ListMovementsResponse, error) {
	page, pageSize := int(req.Page), int(req.PageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	items, total, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:    req.ProductID,
		MovementType: strings.ToUpper(req.Type),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}

	out := make([]*wmsv1.Movement, len(items))
	for i := range items {
		out[i] = mapMovementToProto(&items[i])
	}
	return &wmsv1.ListMovementsResponse{
		Items: out,
		Total: int32(total),
	}, nil
}

func mapMovementToProto(m *model.InventoryMovement) *wmsv1.Movement {
	res := &wmsv1.Movement{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        string(m.Type),
		Quantity:    int32(m.Quantity),
		StockBefore: int32(m.StockBefore),
		StockAfter:  int32(m.StockAfter),
		Reason:      m.Reason,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
	if m.ReferenceID != nil {
		res.ReferenceID = *m.ReferenceID
	}
	if m.Product != nil {
		res.ProductName = m.Product.Name
		res.ProductSKU = m.Product.SKU
	}
	return res
}

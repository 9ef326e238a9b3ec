package handler

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/fekuna/omnipos-wms-service/internal/rpc/wmsv1"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type OrderHandler struct {
	wmsv1.UnimplementedOrderServiceServer
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) CreateOrder(ctx context.Context, req *wmsv1.CreateOrderRequest) (*wmsv1.Order, error) {
	u, ok := auth.GetUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	if u.Role != auth.RoleAdmin && u.Role != auth.RoleStaff {
		return nil, apperror.ToGRPC(apperror.ErrForbidden)
	}

	items := make([]dto.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = dto.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  int(item.Quantity),
		}
		if item.Price != "" {
			price, err := decimal.NewFromString(item.Price)
			if err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "items[%d].price: %v", i, err)
			}
			items[i].UnitPrice = &price
		}
	}

	o, err := h.uc.CreateOrder(ctx, &dto.CreateOrderInput{
		UserID:         u.UserID,
		Items:          items,
		Status:         model.OrderStatus(req.Status),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return mapOrderToProto(o), nil
}

func (h *OrderHandler) UpdateOrderStatus(ctx context.Context, req *wmsv1.UpdateOrderStatusRequest) (*wmsv1.Order, error) {
	u, ok := auth.GetUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}

	o, err := h.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{
		OrderID: req.OrderID,
		Status:  model.OrderStatus(req.Status),
		UserID:  u.UserID,
		IsAdmin: u.IsAdmin(),
	})
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return mapOrderToProto(o), nil
}

func (h *OrderHandler) GetOrder(ctx context.Context, req *wmsv1.GetOrderRequest) (*wmsv1.Order, error) {
	u, ok := auth.GetUser(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}

	o, err := h.uc.GetOrder(ctx, req.ID, u.UserID, u.IsAdmin())
	if err != nil {
		return nil, apperror.ToGRPC(err)
	}
	return mapOrderToProto(o), nil
}

func mapOrderToProto(o *model.Order) *wmsv1.Order {
	res := &wmsv1.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		UserID:      o.UserID,
		Items:       make([]*wmsv1.OrderItem, len(o.Items)),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	for i, item := range o.Items {
		res.Items[i] = &wmsv1.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  int32(item.Quantity),
			Price:     item.Price.StringFixed(2),
		}
		if item.Product != nil {
			res.Items[i].ProductName = item.Product.Name
		}
	}
	return res
}

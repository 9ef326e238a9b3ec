package order

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
)

const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, input *dto.UpdateOrderStatusInput) (*model.Order, error)
	GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	Close()
}

// EventNotifier receives committed order events. Implementations must not block.
type EventNotifier interface {
	NotifyOrderEvent(ctx context.Context, event string, order *model.Order)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event string, order *model.Order) error
}

// StockListener is told about every product whose stock an order moved.
type StockListener interface {
	StockChanged(ctx context.Context, productID string)
}

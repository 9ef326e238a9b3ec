package dto

import (
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	UserID         string
	Items          []OrderItemInput
	Status         model.OrderStatus // empty means pending
	IdempotencyKey string
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal // overrides the catalog price when set
}

type UpdateOrderStatusInput struct {
	OrderID string
	Status  model.OrderStatus
	UserID  string
	IsAdmin bool
}

package wmsv1

import "time"

type Movement struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	ProductSKU  string    `json:"product_sku,omitempty"`
	Type        string    `json:"type"`
	Quantity    int32     `json:"quantity"`
	StockBefore int32     `json:"stock_before"`
	StockAfter  int32     `json:"stock_after"`
	Reason      string    `json:"reason"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ApplyMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int32  `json:"quantity"`
	Reason    string `json:"reason"`
}

type ListMovementsRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Page      int32  `json:"page"`
	PageSize  int32  `json:"page_size"`
}

type ListMovementsResponse struct {
	Items []*Movement `json:"items"`
	Total int32       `json:"total"`
}

type OrderItem struct {
	ID          string `json:"id,omitempty"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int32  `json:"quantity"`
	// Price is a decimal string. On create an empty price means the catalog price.
	Price string `json:"price,omitempty"`
}

type Order struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"order_number"`
	Status      string       `json:"status"`
	TotalAmount string       `json:"total_amount"`
	UserID      string       `json:"user_id"`
	Items       []*OrderItem `json:"items"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateOrderRequest struct {
	Items          []*OrderItem `json:"items"`
	Status         string       `json:"status"`
	IdempotencyKey string       `json:"idempotency_key"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

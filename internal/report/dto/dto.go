package dto

import "github.com/shopspring/decimal"

type BestSeller struct {
	ProductID string          `db:"product_id" json:"product_id"`
	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Revenue   decimal.Decimal `db:"revenue" json:"revenue"`
}

// SalesBucket aggregates non-cancelled orders over one period. Period is
// YYYY-MM for monthly buckets and YYYY-MM-DD for daily ones.
type SalesBucket struct {
	Period      string          `db:"period" json:"period"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	OrderCount  int             `db:"order_count" json:"order_count"`
}

type Counts struct {
	TotalProducts int `db:"total_products" json:"total_products"`
	TotalStock    int `db:"total_stock" json:"total_stock"`
	TotalOrders   int `db:"total_orders" json:"total_orders"`
	LowStockCount int `db:"low_stock_count" json:"low_stock_count"`
}

type Summary struct {
	Counts
	SalesLast7Days []SalesBucket `json:"sales_last_7_days"`
	TopProducts    []BestSeller  `json:"top_products"`
}

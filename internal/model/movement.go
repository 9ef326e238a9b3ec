package model

import "time"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// InventoryMovement is an immutable ledger entry. Rows are inserted, never updated or deleted.
type InventoryMovement struct {
	ID          string       `db:"id" json:"id"`
	ProductID   string       `db:"product_id" json:"product_id"`
	Type        MovementType `db:"type" json:"type"`
	Quantity    int          `db:"quantity" json:"quantity"`
	StockBefore int          `db:"stock_before" json:"stock_before"`
	StockAfter  int          `db:"stock_after" json:"stock_after"`
	Reason      string       `db:"reason" json:"reason"`
	ReferenceID *string      `db:"reference_id" json:"reference_id"` // order id for order driven movements
	CreatedBy   string       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	Product     *ProductRef  `db:"-" json:"product,omitempty"`
}

// Signed returns the quantity with the sign of its direction.
func (m *InventoryMovement) Signed() int {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}

type ProductRef struct {
	Name string `db:"name" json:"name"`
	SKU  string `db:"sku" json:"sku"`
}

// StockDrift is a product whose stock column disagrees with its ledger.
type StockDrift struct {
	ProductID   string `db:"product_id" json:"product_id"`
	SKU         string `db:"sku" json:"sku"`
	Name        string `db:"name" json:"name"`
	Stock       int    `db:"stock" json:"stock"`
	LedgerStock int    `db:"ledger_stock" json:"ledger_stock"`
}

func (d StockDrift) Delta() int {
	return d.Stock - d.LedgerStock
}

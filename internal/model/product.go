package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	SKU            string          `db:"sku" json:"sku"`
	Name           string          `db:"name" json:"name"`
	Description    *string         `db:"description" json:"description"`
	CategoryID     string          `db:"category_id" json:"category_id"`
	RackLocationID *string         `db:"rack_location_id" json:"rack_location_id"` // Nullable
	Price          decimal.Decimal `db:"price" json:"price"`
	Stock          int             `db:"stock" json:"stock"`
	MinStock       int             `db:"min_stock" json:"min_stock"`
	ImageURL       *string         `db:"image_url" json:"image_url"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedBy      *string         `db:"created_by" json:"created_by"`
	Category       *Category       `db:"-" json:"category,omitempty"`      // Joined data
	RackLocation   *RackLocation   `db:"-" json:"rack_location,omitempty"` // Joined data
}

// IsLowStock reports whether stock has fallen to the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

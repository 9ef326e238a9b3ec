package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	SKU            string
	Name           string
	Description    string
	CategoryID     string
	RackLocationID string // Optional
	Price          decimal.Decimal
	Stock          int // opening stock, recorded as an IN movement
	MinStock       int
	ImageURL       string
	UserID         string
}

// UpdateProductInput has no stock field: stock only moves through the ledger.
type UpdateProductInput struct {
	ID             string
	SKU            *string
	Name           *string
	Description    *string
	CategoryID     *string
	RackLocationID *string // empty string clears the location
	Price          *decimal.Decimal
	MinStock       *int
	ImageURL       *string
	IsActive       *bool
}

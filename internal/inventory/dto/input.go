package dto

import "github.com/fekuna/omnipos-wms-service/internal/model"

type ApplyMovementInput struct {
	ProductID   string
	Type        model.MovementType
	Quantity    int
	Reason      string
	ReferenceID string // order id for order driven movements
	UserID      string
}

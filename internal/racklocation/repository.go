package racklocation

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/racklocation/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, location *model.RackLocation) error
	FindByID(ctx context.Context, id string) (*model.RackLocation, error)
	FindByName(ctx context.Context, name string) (*model.RackLocation, error)
	FindAll(ctx context.Context, filters *dto.RackLocationFilters) ([]model.RackLocation, int, error)
	Update(ctx context.Context, location *model.RackLocation) error
	Delete(ctx context.Context, id string) error

	// CountProducts counts products (archived included) referencing the rack location.
	CountProducts(ctx context.Context, id string) (int, error)
}

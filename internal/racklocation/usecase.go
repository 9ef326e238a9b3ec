package racklocation

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/racklocation/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
)

type UseCase interface {
	CreateRackLocation(ctx context.Context, input *dto.CreateRackLocationInput) (*model.RackLocation, error)
	GetRackLocation(ctx context.Context, id string) (*model.RackLocation, error)
	ListRackLocations(ctx context.Context, filters *dto.RackLocationFilters) ([]model.RackLocation, int, error)
	UpdateRackLocation(ctx context.Context, input *dto.UpdateRackLocationInput) (*model.RackLocation, error)
	DeleteRackLocation(ctx context.Context, id string) error
}

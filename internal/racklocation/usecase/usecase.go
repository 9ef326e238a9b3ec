package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation"
	"github.com/fekuna/omnipos-wms-service/internal/racklocation/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type rackLocationUseCase struct {
	repo   racklocation.Repository
	logger logger.ZapLogger
}

func NewRackLocationUseCase(repo racklocation.Repository, log logger.ZapLogger) racklocation.UseCase {
	return &rackLocationUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *rackLocationUseCase) CreateRackLocation(ctx context.Context, input *dto.CreateRackLocationInput) (*model.RackLocation, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}

	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("rack location already exists")
	}

	now := time.Now()
	loc := &model.RackLocation{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
	}
	if input.Description != "" {
		desc := input.Description
		loc.Description = &desc
	}

	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (uc *rackLocationUseCase) GetRackLocation(ctx context.Context, id string) (*model.RackLocation, error) {
	loc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperror.NotFound("rack location", id)
	}
	return loc, nil
}

func (uc *rackLocationUseCase) ListRackLocations(ctx context.Context, filters *dto.RackLocationFilters) ([]model.RackLocation, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *rackLocationUseCase) UpdateRackLocation(ctx context.Context, input *dto.UpdateRackLocationInput) (*model.RackLocation, error) {
	loc, err := uc.GetRackLocation(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name", "must not be empty")
		}
		if name != loc.Name {
			existing, err := uc.repo.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperror.Conflict("rack location already exists")
			}
		}
		loc.Name = name
	}
	if input.Description != nil {
		desc := *input.Description
		loc.Description = &desc
	}
	loc.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (uc *rackLocationUseCase) DeleteRackLocation(ctx context.Context, id string) error {
	if _, err := uc.GetRackLocation(ctx, id); err != nil {
		return err
	}

	count, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.InUse("rack location has products")
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Rack location deleted", zap.String("rack_location_id", id))
	return nil
}

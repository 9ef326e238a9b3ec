package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/category"
	"github.com/fekuna/omnipos-wms-service/internal/category/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}

	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("category already exists")
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: name,
	}
	if input.Description != "" {
		desc := input.Description
		cat.Description = &desc
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound("category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Validation("name", "must not be empty")
		}
		if name != cat.Name {
			existing, err := uc.repo.FindByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperror.Conflict("category already exists")
			}
		}
		cat.Name = name
	}
	if input.Description != nil {
		desc := *input.Description
		cat.Description = &desc
	}
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.InUse("category has products")
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Category deleted", zap.String("category_id", id))
	return nil
}

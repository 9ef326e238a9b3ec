package report

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/report/dto"
)

type UseCase interface {
	LowStock(ctx context.Context) ([]model.Product, error)
	BestSellers(ctx context.Context, months, limit int) ([]dto.BestSeller, error)
	MonthlySales(ctx context.Context, months int) ([]dto.SalesBucket, error)
	Summary(ctx context.Context) (*dto.Summary, error)
}

package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/report"
	"github.com/fekuna/omnipos-wms-service/internal/report/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultBestSellerMonths = 3
	defaultSalesMonths      = 12
	summaryDays             = 7
	summaryTopDays          = 30
	summaryTopLimit         = 5
)

type reportUseCase struct {
	repo   report.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(repo report.Repository, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{repo: repo, logger: log, now: time.Now}
}

func (uc *reportUseCase) LowStock(ctx context.Context) ([]model.Product, error) {
	products, err := uc.repo.LowStock(ctx)
	if err != nil {
		uc.logger.Error("Failed to build low stock report", zap.Error(err))
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (uc *reportUseCase) BestSellers(ctx context.Context, months, limit int) ([]dto.BestSeller, error) {
	if months <= 0 {
		months = defaultBestSellerMonths
	}
	if limit <= 0 {
		limit = 10
	}
	since := uc.now().UTC().AddDate(0, -months, 0)
	out, err := uc.repo.BestSellers(ctx, since, limit)
	if err != nil {
		uc.logger.Error("Failed to build best sellers report", zap.Error(err))
		return nil, err
	}
	if out == nil {
		out = []dto.BestSeller{}
	}
	return out, nil
}

// MonthlySales returns one bucket per month, oldest first, including months
// without orders.
func (uc *reportUseCase) MonthlySales(ctx context.Context, months int) ([]dto.SalesBucket, error) {
	if months <= 0 {
		months = defaultSalesMonths
	}
	now := uc.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	rows, err := uc.repo.Sales(ctx, first, false)
	if err != nil {
		uc.logger.Error("Failed to build monthly sales report", zap.Error(err))
		return nil, err
	}

	periods := make([]string, months)
	for i := range periods {
		periods[i] = first.AddDate(0, i, 0).Format("2006-01")
	}
	return fill(periods, rows), nil
}

func (uc *reportUseCase) Summary(ctx context.Context) (*dto.Summary, error) {
	counts, err := uc.repo.Counts(ctx)
	if err != nil {
		uc.logger.Error("Failed to build summary", zap.Error(err))
		return nil, err
	}

	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	first := today.AddDate(0, 0, -(summaryDays - 1))

	daily, err := uc.repo.Sales(ctx, first, true)
	if err != nil {
		uc.logger.Error("Failed to build summary", zap.Error(err))
		return nil, err
	}
	periods := make([]string, summaryDays)
	for i := range periods {
		periods[i] = first.AddDate(0, 0, i).Format("2006-01-02")
	}

	top, err := uc.repo.BestSellers(ctx, now.AddDate(0, 0, -summaryTopDays), summaryTopLimit)
	if err != nil {
		uc.logger.Error("Failed to build summary", zap.Error(err))
		return nil, err
	}
	if top == nil {
		top = []dto.BestSeller{}
	}

	return &dto.Summary{
		Counts:         *counts,
		SalesLast7Days: fill(periods, daily),
		TopProducts:    top,
	}, nil
}

func fill(periods []string, rows []dto.SalesBucket) []dto.SalesBucket {
	byPeriod := make(map[string]dto.SalesBucket, len(rows))
	for _, r := range rows {
		byPeriod[r.Period] = r
	}
	out := make([]dto.SalesBucket, len(periods))
	for i, p := range periods {
		if r, ok := byPeriod[p]; ok {
			out[i] = r
			continue
		}
		out[i] = dto.SalesBucket{Period: p, TotalAmount: decimal.Zero}
	}
	return out
}

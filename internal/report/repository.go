package report

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/report/dto"
)

// Repository aggregates over committed state. Cancelled orders never count
// as sales.
type Repository interface {
	LowStock(ctx context.Context) ([]model.Product, error)
	BestSellers(ctx context.Context, since time.Time, limit int) ([]dto.BestSeller, error)
	// Sales returns buckets that have at least one order; day selects daily
	// instead of monthly buckets.
	Sales(ctx context.Context, since time.Time, day bool) ([]dto.SalesBucket, error)
	Counts(ctx context.Context) (*dto.Counts, error)
}

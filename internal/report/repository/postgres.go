package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/report/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) LowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	query := `
        SELECT * FROM products
        WHERE is_active = true AND stock <= min_stock
        ORDER BY stock ASC, name ASC`
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	return products, nil
}

func (r *PGRepository) BestSellers(ctx context.Context, since time.Time, limit int) ([]dto.BestSeller, error) {
	var out []dto.BestSeller
	query := `
        SELECT p.id AS product_id, p.sku, p.name,
               SUM(oi.quantity) AS quantity,
               COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN products p ON p.id = oi.product_id
        WHERE o.status <> 'cancelled' AND o.created_at >= $1
        GROUP BY p.id, p.sku, p.name
        ORDER BY quantity DESC, p.name ASC
        LIMIT $2`
	if err := r.DB.SelectContext(ctx, &out, query, since, limit); err != nil {
		return nil, fmt.Errorf("failed to query best sellers: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Sales(ctx context.Context, since time.Time, day bool) ([]dto.SalesBucket, error) {
	format := "YYYY-MM"
	if day {
		format = "YYYY-MM-DD"
	}
	var out []dto.SalesBucket
	query := `
        SELECT to_char(created_at AT TIME ZONE 'UTC', $1) AS period,
               COALESCE(SUM(total_amount), 0) AS total_amount,
               COUNT(*) AS order_count
        FROM orders
        WHERE status <> 'cancelled' AND created_at >= $2
        GROUP BY period
        ORDER BY period ASC`
	if err := r.DB.SelectContext(ctx, &out, query, format, since); err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	return out, nil
}

func (r *PGRepository) Counts(ctx context.Context) (*dto.Counts, error) {
	var c dto.Counts
	query := `
        SELECT
            (SELECT COUNT(*) FROM products WHERE is_active = true) AS total_products,
            (SELECT COALESCE(SUM(stock), 0) FROM products WHERE is_active = true) AS total_stock,
            (SELECT COUNT(*) FROM orders) AS total_orders,
            (SELECT COUNT(*) FROM products WHERE is_active = true AND stock <= min_stock) AS low_stock_count`
	if err := r.DB.GetContext(ctx, &c, query); err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	return &c, nil
}

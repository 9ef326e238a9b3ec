package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order, movements []*model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := invRepo.LockProductsTx(ctx, tx, movementProductIDs(movements)); err != nil {
		return err
	}

	// 1. Order header
	orderQuery := `
        INSERT INTO orders (id, order_number, status, total_amount, user_id, created_at, updated_at)
        VALUES (:id, :order_number, :status, :total_amount, :user_id, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Line items with price snapshots
	itemQuery := `
        INSERT INTO order_items (id, order_id, product_id, quantity, price)
        VALUES (:id, :order_id, :product_id, :quantity, :price)
    `
	for i := range o.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// 3. Stock deductions, in item order
	for _, m := range movements {
		if _, err := invRepo.ApplyMovementTx(ctx, tx, m); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func movementProductIDs(movements []*model.InventoryMovement) []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, m := range movements {
		if !seen[m.ProductID] {
			seen[m.ProductID] = true
			ids = append(ids, m.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	orders := []model.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

type itemRow struct {
	model.OrderItem
	ProductName sql.NullString `db:"product_name"`
	ProductSKU  sql.NullString `db:"product_sku"`
}

func (r *PGRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query, args, err := sqlx.In(`
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
               p.name AS product_name, p.sku AS product_sku
        FROM order_items oi
        LEFT JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id IN (?)
        ORDER BY oi.seq`, ids)
	if err != nil {
		return err
	}

	var rows []itemRow
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, row := range rows {
		item := row.OrderItem
		if row.ProductName.Valid {
			item.Product = &model.ProductRef{Name: row.ProductName.String, SKU: row.ProductSKU.String}
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, o *model.Order, from model.OrderStatus, movements []*model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		o.Status, o.UpdatedAt, o.ID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.Conflict("order %s was modified concurrently", o.OrderNumber)
	}

	if len(movements) > 0 {
		if err := invRepo.LockProductsTx(ctx, tx, movementProductIDs(movements)); err != nil {
			return err
		}
		for _, m := range movements {
			if _, err := invRepo.ApplyMovementTx(ctx, tx, m); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ApplyMovement(ctx context.Context, m *model.InventoryMovement) (*model.Product, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := ApplyMovementTx(ctx, tx, m)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit movement: %w", err)
	}
	return p, nil
}

const (
	stockInQuery = `
        UPDATE products
        SET stock = stock + $1, updated_at = NOW()
        WHERE id = $2
        RETURNING *
    `
	// The stock guard makes check-then-decrement a single statement, so two
	// concurrent OUT movements can never both pass against the same stock.
	stockOutQuery = `
        UPDATE products
        SET stock = stock - $1, updated_at = NOW()
        WHERE id = $2 AND stock >= $1
        RETURNING *
    `
	insertMovementQuery = `
        INSERT INTO inventory_movements (
            id, product_id, type, quantity, stock_before, stock_after,
            reason, reference_id, created_by, created_at
        )
        VALUES (
            :id, :product_id, :type, :quantity, :stock_before, :stock_after,
            :reason, :reference_id, :created_by, :created_at
        )
    `
)

// ApplyMovementTx applies m inside tx. Callers that batch several movements
// (order creation, cancellation) share one transaction through it.
func ApplyMovementTx(ctx context.Context, tx *sqlx.Tx, m *model.InventoryMovement) (*model.Product, error) {
	query := stockInQuery
	if m.Type == model.MovementOut {
		query = stockOutQuery
	}

	var p model.Product
	err := tx.GetContext(ctx, &p, query, m.Quantity, m.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, explainMissedUpdate(ctx, tx, m)
		}
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	m.StockAfter = p.Stock
	m.StockBefore = p.Stock - m.Signed()

	if _, err := tx.NamedExecContext(ctx, insertMovementQuery, m); err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}
	return &p, nil
}

// LockProductsTx takes row locks on the given products in id order. Batches
// that touch several products call it first so concurrent batches always
// acquire locks in the same order.
func LockProductsTx(ctx context.Context, tx *sqlx.Tx, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`SELECT id FROM products WHERE id IN (?) ORDER BY id FOR UPDATE`, productIDs)
	if err != nil {
		return err
	}
	var locked []string
	if err := tx.SelectContext(ctx, &locked, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to lock products: %w", err)
	}
	return nil
}

// explainMissedUpdate tells a missing product apart from a failed stock guard.
func explainMissedUpdate(ctx context.Context, tx *sqlx.Tx, m *model.InventoryMovement) error {
	var current struct {
		Name  string `db:"name"`
		Stock int    `db:"stock"`
	}
	err := tx.GetContext(ctx, &current, `SELECT name, stock FROM products WHERE id = $1`, m.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("product", m.ProductID)
		}
		return fmt.Errorf("failed to read product: %w", err)
	}
	return &apperror.StockError{
		ProductID:   m.ProductID,
		ProductName: current.Name,
		Available:   current.Stock,
		Requested:   m.Quantity,
	}
}

type movementRow struct {
	model.InventoryMovement
	ProductName sql.NullString `db:"product_name"`
	ProductSKU  sql.NullString `db:"product_sku"`
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "m.product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "m.type = :type")
		args["type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_movements m" + whereClause
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

	query := `
        SELECT m.*, p.name AS product_name, p.sku AS product_sku
        FROM inventory_movements m
        LEFT JOIN products p ON p.id = m.product_id` + whereClause + " ORDER BY m.created_at DESC"
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

	var found []movementRow
	if err := nstmt.SelectContext(ctx, &found, args); err != nil {
		return nil, 0, err
	}

	items := make([]model.InventoryMovement, len(found))
	for i, row := range found {
		items[i] = row.InventoryMovement
		if row.ProductName.Valid {
			items[i].Product = &model.ProductRef{Name: row.ProductName.String, SKU: row.ProductSKU.String}
		}
	}
	return items, count, nil
}

func (r *PGRepository) FindDrift(ctx context.Context) ([]model.StockDrift, error) {
	query := `
        SELECT p.id AS product_id, p.sku, p.name, p.stock,
               COALESCE(SUM(CASE WHEN m.type = 'IN' THEN m.quantity ELSE -m.quantity END), 0) AS ledger_stock
        FROM products p
        LEFT JOIN inventory_movements m ON m.product_id = p.id
        GROUP BY p.id, p.sku, p.name, p.stock
        HAVING p.stock <> COALESCE(SUM(CASE WHEN m.type = 'IN' THEN m.quantity ELSE -m.quantity END), 0)
        ORDER BY p.sku
    `
	drift := []model.StockDrift{}
	if err := r.DB.SelectContext(ctx, &drift, query); err != nil {
		return nil, fmt.Errorf("failed to compute ledger drift: %w", err)
	}
	return drift, nil
}

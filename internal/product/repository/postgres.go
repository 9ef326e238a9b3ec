package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const selectProducts = `
        SELECT p.*, c.name AS category_name, r.name AS rack_location_name
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        LEFT JOIN rack_locations r ON r.id = p.rack_location_id`

type productRow struct {
	model.Product
	CategoryName     sql.NullString `db:"category_name"`
	RackLocationName sql.NullString `db:"rack_location_name"`
}

func (row *productRow) toModel() model.Product {
	p := row.Product
	if row.CategoryName.Valid {
		p.Category = &model.Category{BaseModel: model.BaseModel{ID: p.CategoryID}, Name: row.CategoryName.String}
	}
	if row.RackLocationName.Valid && p.RackLocationID != nil {
		p.RackLocation = &model.RackLocation{BaseModel: model.BaseModel{ID: *p.RackLocationID}, Name: row.RackLocationName.String}
	}
	return p
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product, opening *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO products (
            id, sku, name, description, category_id, rack_location_id,
            price, stock, min_stock, image_url, is_active, created_by,
            created_at, updated_at
        )
        VALUES (
            :id, :sku, :name, :description, :category_id, :rack_location_id,
            :price, 0, :min_stock, :image_url, :is_active, :created_by,
            :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if opening != nil {
		if _, err := invRepo.ApplyMovementTx(ctx, tx, opening); err != nil {
			return err
		}
		p.Stock = opening.StockAfter
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var row productRow
	err := r.DB.GetContext(ctx, &row, selectProducts+` WHERE p.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p := row.toModel()
	return &p, nil
}

// FindByIDs returns the products in the order of ids, skipping unknown ids.
func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(selectProducts+` WHERE p.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	byID := make(map[string]model.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].toModel()
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if !f.IncludeArchived {
		conditions = append(conditions, "p.is_active = TRUE")
	}
	if f.CategoryID != "" {
		conditions = append(conditions, "p.category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.RackLocationID != "" {
		conditions = append(conditions, "p.rack_location_id = :rack_location_id")
		args["rack_location_id"] = f.RackLocationID
	}
	if f.Search != "" {
		conditions = append(conditions, "(p.name ILIKE :search OR p.sku ILIKE :search OR c.name ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `
        SELECT count(*) FROM products p
        LEFT JOIN categories c ON c.id = p.category_id` + whereClause
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

	orderBy := "p.created_at DESC"
	if f.SortBy != "" {
		// Whitelisted to keep user input out of the ORDER BY clause
		switch f.SortBy {
		case "name":
			orderBy = "p.name"
		case "price":
			orderBy = "p.price"
		case "stock":
			orderBy = "p.stock"
		default:
			orderBy = "p.created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("%s%s ORDER BY %s", selectProducts, whereClause, orderBy)
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

	var found []productRow
	if err := nstmt.SelectContext(ctx, &found, args); err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, len(found))
	for i := range found {
		products[i] = found[i].toModel()
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET sku = :sku,
            name = :name,
            description = :description,
            category_id = :category_id,
            rack_location_id = :rack_location_id,
            price = :price,
            min_stock = :min_stock,
            image_url = :image_url,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Archive(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE sku = $1`
	args := []interface{}{sku}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

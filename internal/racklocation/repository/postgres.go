package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/racklocation/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.RackLocation) error {
	query := `
        INSERT INTO rack_locations (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.RackLocation, error) {
	return r.findOne(ctx, `SELECT * FROM rack_locations WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.RackLocation, error) {
	return r.findOne(ctx, `SELECT * FROM rack_locations WHERE name = $1 LIMIT 1`, name)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.RackLocation, error) {
	var location model.RackLocation
	err := r.DB.GetContext(ctx, &location, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.RackLocationFilters) ([]model.RackLocation, int, error) {
	var locations []model.RackLocation
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.Search + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM rack_locations" + whereClause
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

	query := "SELECT * FROM rack_locations" + whereClause + " ORDER BY created_at DESC"
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

	if err := nstmt.SelectContext(ctx, &locations, args); err != nil {
		return nil, 0, err
	}
	return locations, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.RackLocation) error {
	query := `
        UPDATE rack_locations
        SET name = :name,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM rack_locations WHERE id = $1", id)
	return err
}

func (r *PGRepository) CountProducts(ctx context.Context, id string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM products WHERE rack_location_id = $1`, id)
	return count, err
}

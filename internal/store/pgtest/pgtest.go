// Package pgtest opens an isolated, migrated PostgreSQL schema for repository
// tests. Tests are skipped unless WMS_TEST_POSTGRES_DSN is set.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/migrations"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const DSNEnv = "WMS_TEST_POSTGRES_DSN"

// Open creates a fresh schema, points every pooled connection at it through
// search_path and applies the embedded migrations. The schema is dropped on cleanup.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", DSNEnv)
	}

	schema := "wms_test_" + uuid.NewString()[:8]
	admin, err := sqlx.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open admin connection: %v", err)
	}
	t.Cleanup(func() { admin.Close() })
	if _, err := admin.Exec(fmt.Sprintf(`CREATE SCHEMA %s`, schema)); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = admin.Exec(fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, schema))
	})

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.RuntimeParams["search_path"] = schema
	name := stdlib.RegisterConnConfig(cfg)
	t.Cleanup(func() { stdlib.UnregisterConnConfig(name) })

	db, err := sqlx.Open("pgx", name)
	if err != nil {
		t.Fatalf("open schema connection: %v", err)
	}
	db.SetMaxOpenConns(10)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := migrations.Apply(ctx, db, logger.NewNop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// SeedProduct inserts an active product with its opening IN movement, so the
// ledger starts without drift.
func SeedProduct(t *testing.T, db *sqlx.DB, id string, price string, stock int) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO categories (id, name) VALUES ('cat-test', 'Test') ON CONFLICT DO NOTHING`); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO products (id, sku, name, category_id, price, stock) VALUES ($1, $2, $3, 'cat-test', $4, $5)`,
		id, "SKU-"+id, "Product "+id, price, stock,
	); err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
	if stock == 0 {
		return
	}
	if _, err := db.Exec(
		`INSERT INTO inventory_movements (id, product_id, type, quantity, stock_before, stock_after, reason, created_by)
         VALUES ($1, $2, $3, $4, 0, $4, 'initial-stock', 'seed')`,
		"open-"+id, id, string(model.MovementIn), stock,
	); err != nil {
		t.Fatalf("seed opening movement %s: %v", id, err)
	}
}

func Stock(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id = $1`, id); err != nil {
		t.Fatalf("read stock %s: %v", id, err)
	}
	return stock
}

func Count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, fmt.Sprintf(`SELECT count(*) FROM %s`, table)); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

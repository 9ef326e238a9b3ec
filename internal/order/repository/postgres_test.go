package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/store/pgtest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	productID string
	qty       int
}

var orderSeq int64

// newOrder builds a pending order and the movements for the given lines, in line order.
func newOrder(lines []line, t model.MovementType) (*model.Order, []*model.InventoryMovement) {
	now := time.Now()
	id := uuid.NewString()
	o := &model.Order{
		BaseModel:   model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		OrderNumber: fmt.Sprintf("ORD-%d", atomic.AddInt64(&orderSeq, 1)),
		Status:      model.OrderPending,
		UserID:      "u1",
	}
	total := decimal.Zero
	movements := make([]*model.InventoryMovement, len(lines))
	for i, l := range lines {
		item := model.OrderItem{ID: uuid.NewString(), OrderID: id, ProductID: l.productID, Quantity: l.qty, Price: decimal.NewFromInt(2)}
		o.Items = append(o.Items, item)
		total = total.Add(item.Subtotal())
		ref := id
		movements[i] = &model.InventoryMovement{
			ID: uuid.NewString(), ProductID: l.productID, Type: t, Quantity: l.qty,
			Reason: "order:" + o.OrderNumber, ReferenceID: &ref, CreatedBy: "u1", CreatedAt: now,
		}
	}
	o.TotalAmount = total
	return o, movements
}

func assertNoDrift(t *testing.T, repo *invRepo.PGRepository) {
	t.Helper()
	drift, err := repo.FindDrift(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestPGCreate_ConcurrentFullStockOrders(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	pgtest.SeedProduct(t, db, "p1", "2", 5)

	var ok, short int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, movements := newOrder([]line{{"p1", 5}}, model.MovementOut)
			err := repo.Create(context.Background(), o, movements)
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, apperror.ErrInsufficientStock):
				atomic.AddInt32(&short, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok)
	assert.Equal(t, int32(19), short)
	assert.Equal(t, 0, pgtest.Stock(t, db, "p1"))
	assert.Equal(t, 1, pgtest.Count(t, db, "orders"))
	assert.Equal(t, 1, pgtest.Count(t, db, "order_items"))
	assertNoDrift(t, invRepo.NewPGRepository(db))
}

func TestPGCreate_ShortLineRollsBackWholeOrder(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	pgtest.SeedProduct(t, db, "p1", "2", 10)
	pgtest.SeedProduct(t, db, "p2", "2", 1)

	o, movements := newOrder([]line{{"p1", 3}, {"p2", 2}}, model.MovementOut)
	err := repo.Create(context.Background(), o, movements)

	var stockErr *apperror.StockError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	assert.Equal(t, "p2", stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	assert.Equal(t, 10, pgtest.Stock(t, db, "p1"))
	assert.Equal(t, 1, pgtest.Stock(t, db, "p2"))
	assert.Equal(t, 0, pgtest.Count(t, db, "orders"))
	assert.Equal(t, 0, pgtest.Count(t, db, "order_items"))
	assert.Equal(t, 2, pgtest.Count(t, db, "inventory_movements"))
	assertNoDrift(t, invRepo.NewPGRepository(db))
}

// Orders naming the same products in opposite line order must not deadlock.
func TestPGCreate_OppositeLineOrders(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	pgtest.SeedProduct(t, db, "p1", "2", 100)
	pgtest.SeedProduct(t, db, "p2", "2", 100)

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		lines := []line{{"p1", 1}, {"p2", 2}}
		if i%2 == 1 {
			lines = []line{{"p2", 2}, {"p1", 1}}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, movements := newOrder(lines, model.MovementOut)
			errs <- repo.Create(context.Background(), o, movements)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 70, pgtest.Stock(t, db, "p1"))
	assert.Equal(t, 40, pgtest.Stock(t, db, "p2"))
	assert.Equal(t, 30, pgtest.Count(t, db, "orders"))
	assertNoDrift(t, invRepo.NewPGRepository(db))
}

func TestPGUpdateStatus(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	pgtest.SeedProduct(t, db, "p1", "2", 10)
	pgtest.SeedProduct(t, db, "p2", "2", 10)

	o, movements := newOrder([]line{{"p2", 4}, {"p1", 3}}, model.MovementOut)
	require.NoError(t, repo.Create(ctx, o, movements))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "14", got.TotalAmount.String())
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p2", got.Items[0].ProductID)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "Product p2", got.Items[0].Product.Name)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Cancel with restock: the status change and the IN movements commit together.
	_, restock := newOrder([]line{{"p2", 4}, {"p1", 3}}, model.MovementIn)
	cancelled := *got
	cancelled.Status = model.OrderCancelled
	cancelled.UpdatedAt = time.Now()
	require.NoError(t, repo.UpdateStatus(ctx, &cancelled, model.OrderPending, restock))
	assert.Equal(t, 10, pgtest.Stock(t, db, "p1"))
	assert.Equal(t, 10, pgtest.Stock(t, db, "p2"))

	// A stale source status changes nothing.
	shipped := cancelled
	shipped.Status = model.OrderShipped
	err = repo.UpdateStatus(ctx, &shipped, model.OrderPending, nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Reopening deducts again, and a short line rolls back the status change too.
	_, err = db.Exec(`UPDATE products SET stock = 1 WHERE id = 'p1'`)
	require.NoError(t, err)
	_, rededuct := newOrder([]line{{"p2", 4}, {"p1", 3}}, model.MovementOut)
	reopened := cancelled
	reopened.Status = model.OrderPending
	err = repo.UpdateStatus(ctx, &reopened, model.OrderCancelled, rededuct)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	after, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, after.Status)
	assert.Equal(t, 10, pgtest.Stock(t, db, "p2"))
}

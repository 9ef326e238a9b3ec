package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/store/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movement(productID string, t model.MovementType, qty int) *model.InventoryMovement {
	return &model.InventoryMovement{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      t,
		Quantity:  qty,
		Reason:    "test",
		CreatedBy: "tester",
		CreatedAt: time.Now(),
	}
}

func TestPGApplyMovement(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	ctx := context.Background()
	pgtest.SeedProduct(t, db, "p1", "12.50", 10)

	m := movement("p1", model.MovementIn, 5)
	p, err := repo.ApplyMovement(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
	assert.Equal(t, "SKU-p1", p.SKU)
	assert.Equal(t, "12.5", p.Price.String())
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 15, m.StockAfter)

	m = movement("p1", model.MovementOut, 4)
	p, err = repo.ApplyMovement(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 11, p.Stock)
	assert.Equal(t, 15, m.StockBefore)
	assert.Equal(t, 11, m.StockAfter)

	t.Run("insufficient stock writes nothing", func(t *testing.T) {
		_, err := repo.ApplyMovement(ctx, movement("p1", model.MovementOut, 20))
		var stockErr *apperror.StockError
		require.True(t, errors.As(err, &stockErr), "got %v", err)
		assert.Equal(t, "p1", stockErr.ProductID)
		assert.Equal(t, "Product p1", stockErr.ProductName)
		assert.Equal(t, 11, stockErr.Available)
		assert.Equal(t, 20, stockErr.Requested)

		assert.Equal(t, 11, pgtest.Stock(t, db, "p1"))
		assert.Equal(t, 3, pgtest.Count(t, db, "inventory_movements"))
	})

	t.Run("unknown product", func(t *testing.T) {
		for _, typ := range []model.MovementType{model.MovementIn, model.MovementOut} {
			_, err := repo.ApplyMovement(ctx, movement("missing", typ, 1))
			assert.ErrorIs(t, err, apperror.ErrNotFound)
		}
		assert.Equal(t, 3, pgtest.Count(t, db, "inventory_movements"))
	})

	t.Run("ledger matches stock", func(t *testing.T) {
		drift, err := repo.FindDrift(ctx)
		require.NoError(t, err)
		assert.Empty(t, drift)
	})

	t.Run("list newest first", func(t *testing.T) {
		items, total, err := repo.ListMovements(ctx, &dto.MovementFilters{ProductID: "p1", MovementType: string(model.MovementOut)})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity)
		require.NotNil(t, items[0].Product)
		assert.Equal(t, "SKU-p1", items[0].Product.SKU)
	})
}

func TestPGApplyMovement_ConcurrentOutNeverOversells(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	pgtest.SeedProduct(t, db, "p1", "1", 10)

	var ok, short int32
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyMovement(context.Background(), movement("p1", model.MovementOut, 1))
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

	assert.Equal(t, int32(10), ok)
	assert.Equal(t, int32(15), short)
	assert.Equal(t, 0, pgtest.Stock(t, db, "p1"))

	drift, err := repo.FindDrift(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestPGFindDrift_ReportsTamperedStock(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewPGRepository(db)
	pgtest.SeedProduct(t, db, "p1", "1", 10)
	pgtest.SeedProduct(t, db, "p2", "1", 0)

	_, err := db.Exec(`UPDATE products SET stock = 7 WHERE id = 'p1'`)
	require.NoError(t, err)

	drift, err := repo.FindDrift(context.Background())
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, "p1", drift[0].ProductID)
	assert.Equal(t, 7, drift[0].Stock)
	assert.Equal(t, 10, drift[0].LedgerStock)
	assert.Equal(t, -3, drift[0].Delta())
}

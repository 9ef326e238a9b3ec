package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu  sync.Mutex
	ids []string
}

func (l *recordingListener) StockChanged(ctx context.Context, productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = append(l.ids, productID)
}

func seedProduct(t *testing.T, s *memory.Store, id string, minStock int) {
	t.Helper()
	require.NoError(t, s.Write(func(d *memory.Data) error {
		d.Products[id] = model.Product{
			BaseModel: model.BaseModel{ID: id},
			SKU:       "SKU-" + id,
			Name:      "Product " + id,
			MinStock:  minStock,
			IsActive:  true,
		}
		return nil
	}))
}

func stockOf(t *testing.T, s *memory.Store, id string) int {
	t.Helper()
	var stock int
	_ = s.Read(func(d *memory.Data) error {
		stock = d.Products[id].Stock
		return nil
	})
	return stock
}

func newTestUseCase(listeners ...StockListener) (*memory.Store, *inventoryUseCase) {
	s := memory.New()
	uc := NewInventoryUseCase(repository.NewMemoryRepository(s), logger.NewNop(), listeners...).(*inventoryUseCase)
	return s, uc
}

func TestApplyMovement_InThenOut(t *testing.T) {
	listener := &recordingListener{}
	s, uc := newTestUseCase(listener)
	seedProduct(t, s, "p1", 5)
	ctx := context.Background()

	in, err := uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementIn, Quantity: 10, Reason: "restock", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 0, in.StockBefore)
	assert.Equal(t, 10, in.StockAfter)
	assert.Equal(t, "SKU-p1", in.Product.SKU)

	out, err := uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementOut, Quantity: 4, Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, 10, out.StockBefore)
	assert.Equal(t, 6, out.StockAfter)
	assert.Nil(t, out.ReferenceID)

	assert.Equal(t, 6, stockOf(t, s, "p1"))
	assert.Equal(t, []string{"p1", "p1"}, listener.ids)
}

func TestApplyMovement_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	s, uc := newTestUseCase()
	seedProduct(t, s, "p1", 0)
	ctx := context.Background()

	_, err := uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementIn, Quantity: 10})
	require.NoError(t, err)

	_, err = uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementOut, Quantity: 15})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	var stockErr *apperror.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 15, stockErr.Requested)

	assert.Equal(t, 10, stockOf(t, s, "p1"))
	items, total, err := uc.ListMovements(ctx, &dto.MovementFilters{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestApplyMovement_Validation(t *testing.T) {
	s, uc := newTestUseCase()
	seedProduct(t, s, "p1", 0)

	tests := []struct {
		name  string
		input dto.ApplyMovementInput
	}{
		{"missing product", dto.ApplyMovementInput{Type: model.MovementIn, Quantity: 1}},
		{"bad type", dto.ApplyMovementInput{ProductID: "p1", Type: "MOVE", Quantity: 1}},
		{"zero quantity", dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementIn}},
		{"negative quantity", dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementOut, Quantity: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ApplyMovement(context.Background(), &tt.input)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestApplyMovement_UnknownProduct(t *testing.T) {
	_, uc := newTestUseCase()
	_, err := uc.ApplyMovement(context.Background(), &dto.ApplyMovementInput{ProductID: "nope", Type: model.MovementIn, Quantity: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApplyMovement_ConcurrentOutNeverOversells(t *testing.T) {
	s, uc := newTestUseCase()
	seedProduct(t, s, "p1", 0)
	ctx := context.Background()
	_, err := uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementIn, Quantity: 10})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.ApplyMovement(ctx, &dto.ApplyMovementInput{ProductID: "p1", Type: model.MovementOut, Quantity: 1}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, stockOf(t, s, "p1"))
}

func TestReconcile_LedgerMatchesStock(t *testing.T) {
	s, uc := newTestUseCase()
	seedProduct(t, s, "p1", 0)
	seedProduct(t, s, "p2", 0)
	ctx := context.Background()

	moves := []dto.ApplyMovementInput{
		{ProductID: "p1", Type: model.MovementIn, Quantity: 8},
		{ProductID: "p2", Type: model.MovementIn, Quantity: 3},
		{ProductID: "p1", Type: model.MovementOut, Quantity: 5},
		{ProductID: "p2", Type: model.MovementOut, Quantity: 3},
	}
	for i := range moves {
		_, err := uc.ApplyMovement(ctx, &moves[i])
		require.NoError(t, err)
	}

	drift, err := uc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)

	// Tamper with the stock column outside the ledger.
	require.NoError(t, s.Write(func(d *memory.Data) error {
		p := d.Products["p2"]
		p.Stock = 7
		d.Products["p2"] = p
		return nil
	}))
	drift, err = uc.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, "p2", drift[0].ProductID)
	assert.Equal(t, 7, drift[0].Delta())
}

func TestListMovements_Filters(t *testing.T) {
	s, uc := newTestUseCase()
	seedProduct(t, s, "p1", 0)
	seedProduct(t, s, "p2", 0)
	ctx := context.Background()

	for _, in := range []dto.ApplyMovementInput{
		{ProductID: "p1", Type: model.MovementIn, Quantity: 5},
		{ProductID: "p2", Type: model.MovementIn, Quantity: 5},
		{ProductID: "p1", Type: model.MovementOut, Quantity: 2},
	} {
		in := in
		_, err := uc.ApplyMovement(ctx, &in)
		require.NoError(t, err)
	}

	items, total, err := uc.ListMovements(ctx, &dto.MovementFilters{MovementType: "OUT"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "p1", items[0].ProductID)

	items, total, err = uc.ListMovements(ctx, &dto.MovementFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	// Newest first
	assert.Equal(t, model.MovementOut, items[0].Type)

	_, _, err = uc.ListMovements(ctx, &dto.MovementFilters{MovementType: "SIDEWAYS"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

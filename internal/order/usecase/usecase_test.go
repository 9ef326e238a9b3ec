package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/fekuna/omnipos-wms-service/internal/order/repository"
	productRepo "github.com/fekuna/omnipos-wms-service/internal/product/repository"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	store *memory.Store
	uc    order.UseCase
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	s := memory.New()
	return &fixture{
		store: s,
		uc:    NewOrderUseCase(repository.NewMemoryRepository(s), productRepo.NewMemoryRepository(s), opts, logger.NewNop()),
	}
}

// product seeds a product whose stock is backed by an opening IN movement.
func (f *fixture) product(t *testing.T, id string, price string, stock int) {
	t.Helper()
	require.NoError(t, f.store.Write(func(d *memory.Data) error {
		d.Products[id] = model.Product{
			BaseModel: model.BaseModel{ID: id},
			SKU:       "SKU-" + id,
			Name:      "Product " + id,
			Price:     decimal.RequireFromString(price),
			Stock:     stock,
			IsActive:  true,
		}
		d.Movements = append(d.Movements, model.InventoryMovement{
			ID: "open-" + id, ProductID: id, Type: model.MovementIn, Quantity: stock, StockAfter: stock, Reason: "initial-stock",
		})
		return nil
	}))
}

func (f *fixture) stock(id string) int {
	var stock int
	_ = f.store.Read(func(d *memory.Data) error {
		stock = d.Products[id].Stock
		return nil
	})
	return stock
}

func (f *fixture) movementCount() int {
	var n int
	_ = f.store.Read(func(d *memory.Data) error {
		n = len(d.Movements)
		return nil
	})
	return n
}

func (f *fixture) orderCount() int {
	var n int
	_ = f.store.Read(func(d *memory.Data) error {
		n = len(d.Orders)
		return nil
	})
	return n
}

func items(pairs ...interface{}) []dto.OrderItemInput {
	out := []dto.OrderItemInput{}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dto.OrderItemInput{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

func TestCreateOrder_DeductsStockAndSnapshotsPrices(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "10.50", 10)
	f.product(t, "p2", "3", 5)

	override := decimal.RequireFromString("2.345")
	o, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		UserID: "u1",
		Items: []dto.OrderItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 4, UnitPrice: &override},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, o.Status)
	assert.Regexp(t, `^ORD-\d+$`, o.OrderNumber)
	assert.Equal(t, "u1", o.UserID)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "10.5", o.Items[0].Price.String())
	assert.Equal(t, "2.35", o.Items[1].Price.String())
	assert.Equal(t, "30.4", o.TotalAmount.String())
	require.NotNil(t, o.Items[0].Product)
	assert.Equal(t, "SKU-p1", o.Items[0].Product.SKU)

	assert.Equal(t, 8, f.stock("p1"))
	assert.Equal(t, 1, f.stock("p2"))

	var outs []model.InventoryMovement
	_ = f.store.Read(func(d *memory.Data) error {
		for _, m := range d.Movements {
			if m.Type == model.MovementOut {
				outs = append(outs, m)
			}
		}
		return nil
	})
	require.Len(t, outs, 2)
	assert.Equal(t, "p1", outs[0].ProductID)
	assert.Equal(t, "order:"+o.OrderNumber, outs[0].Reason)
	require.NotNil(t, outs[0].ReferenceID)
	assert.Equal(t, o.ID, *outs[0].ReferenceID)
}

func TestCreateOrder_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "10", 10)

	o, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1)})
	require.NoError(t, err)

	require.NoError(t, f.store.Write(func(d *memory.Data) error {
		p := d.Products["p1"]
		p.Price = decimal.NewFromInt(99)
		d.Products["p1"] = p
		return nil
	}))

	got, err := f.uc.GetOrder(context.Background(), o.ID, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, "10", got.Items[0].Price.String())
	assert.Equal(t, "10", got.TotalAmount.String())
}

func TestCreateOrder_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input dto.CreateOrderInput
		want  error
	}{
		{"empty", dto.CreateOrderInput{UserID: "u1"}, apperror.ErrEmptyOrder},
		{"unknown product", dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1, "ghost", 1)}, apperror.ErrNotFound},
		{"zero quantity", dto.CreateOrderInput{UserID: "u1", Items: items("p1", 0)}, apperror.ErrValidation},
		{"bad status", dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1), Status: "lost"}, apperror.ErrInvalidStatus},
		{"created cancelled", dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1), Status: model.OrderCancelled}, apperror.ErrValidation},
		{"over stock", dto.CreateOrderInput{UserID: "u1", Items: items("p1", 2, "p2", 6)}, apperror.ErrInsufficientStock},
		{"duplicates in aggregate", dto.CreateOrderInput{UserID: "u1", Items: items("p2", 3, "p2", 3)}, apperror.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.product(t, "p1", "1", 10)
			f.product(t, "p2", "1", 5)

			_, err := f.uc.CreateOrder(context.Background(), &tt.input)
			assert.ErrorIs(t, err, tt.want)

			// Nothing is written on rejection.
			assert.Equal(t, 10, f.stock("p1"))
			assert.Equal(t, 5, f.stock("p2"))
			assert.Equal(t, 0, f.orderCount())
			assert.Equal(t, 2, f.movementCount())
		})
	}
}

func TestCreateOrder_ArchivedProduct(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 10)
	require.NoError(t, f.store.Write(func(d *memory.Data) error {
		p := d.Products["p1"]
		p.IsActive = false
		d.Products["p1"] = p
		return nil
	}))

	_, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1)})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, 10, f.stock("p1"))
}

func TestCreateOrder_ConcurrentFullStockOrders(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 5)

	const buyers = 20
	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 5)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, f.stock("p1"))
	assert.Equal(t, 1, f.orderCount())
}

func TestCreateOrder_NumbersStrictlyIncrease(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 100)
	fixed := time.UnixMilli(1700000000000)
	f.uc.(*orderUseCase).numbers = newNumberGenerator(func() time.Time { return fixed })

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		o, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1)})
		require.NoError(t, err)
		assert.False(t, seen[o.OrderNumber], "duplicate order number %s", o.OrderNumber)
		seen[o.OrderNumber] = true
	}
	assert.True(t, seen["ORD-1700000000004"])
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 10)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 3)})
	require.NoError(t, err)

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: "archived", UserID: "u1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderShipped, UserID: "u2"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: "missing", Status: model.OrderShipped, IsAdmin: true})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := f.uc.GetOrder(ctx, o.ID, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)

	updated, err := f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderShipped, UserID: "admin", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, updated.Status)
	assert.Equal(t, o.TotalAmount.String(), updated.TotalAmount.String())
	assert.Equal(t, 7, f.stock("p1"))
}

func TestUpdateOrderStatus_CancelWithoutRestock(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 10)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 4)})
	require.NoError(t, err)
	before := f.movementCount()

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderCancelled, UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, 6, f.stock("p1"))
	assert.Equal(t, before, f.movementCount())
}

func TestUpdateOrderStatus_CancelRestocksAndReopenDeducts(t *testing.T) {
	listener := &recordingListener{}
	f := newFixture(t, Options{CancellationRestocks: true, StockListeners: []order.StockListener{listener}})
	f.product(t, "p1", "1", 10)
	f.product(t, "p2", "1", 2)
	ctx := context.Background()
	o, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 4, "p2", 2)})
	require.NoError(t, err)

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderCancelled, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock("p1"))
	assert.Equal(t, 2, f.stock("p2"))

	// Repeating the same status is a no-op.
	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderCancelled, UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock("p1"))

	// Someone else buys p2 while the order is cancelled, so reopening must fail atomically.
	_, err = f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u2", Items: items("p2", 1)})
	require.NoError(t, err)
	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderPending, UserID: "u1"})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock("p1"))
	got, err := f.uc.GetOrder(ctx, o.ID, "", true)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)

	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderShipped, IsAdmin: true})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	assert.Contains(t, listener.ids, "p1")
	assert.Contains(t, listener.ids, "p2")
}

func TestGetOrderAndList_Visibility(t *testing.T) {
	f := newFixture(t, Options{})
	f.product(t, "p1", "1", 10)
	ctx := context.Background()

	mine, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1)})
	require.NoError(t, err)
	_, err = f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u2", Items: items("p1", 1), Status: model.OrderProcessing})
	require.NoError(t, err)

	_, err = f.uc.GetOrder(ctx, mine.ID, "u2", false)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.uc.GetOrder(ctx, "missing", "u1", false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	list, total, err := f.uc.ListOrders(ctx, &dto.OrderFilters{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, mine.ID, list[0].ID)

	list, total, err = f.uc.ListOrders(ctx, &dto.OrderFilters{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "u2", list[0].UserID)

	_, _, err = f.uc.ListOrders(ctx, &dto.OrderFilters{Status: "nope"})
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
}

type fakeIdempotency struct {
	mu       sync.Mutex
	reserved map[string]string
	released []string
}

func (f *fakeIdempotency) Reserve(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reserved[key]; ok {
		return "", false, nil
	}
	f.reserved[key] = "token-" + key
	return f.reserved[key], true, nil
}

func (f *fakeIdempotency) Release(ctx context.Context, key, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserved[key] == token {
		delete(f.reserved, key)
		f.released = append(f.released, key)
	}
}

func TestCreateOrder_IdempotencyKey(t *testing.T) {
	idem := &fakeIdempotency{reserved: map[string]string{}}
	f := newFixture(t, Options{Idempotency: idem})
	f.product(t, "p1", "1", 3)
	ctx := context.Background()

	_, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1), IdempotencyKey: "k1"})
	require.NoError(t, err)
	_, err = f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1), IdempotencyKey: "k1"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 2, f.stock("p1"))

	// A failed attempt frees its key.
	_, err = f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 9), IdempotencyKey: "k2"})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, []string{"k2"}, idem.released)
}

type recordingListener struct {
	mu  sync.Mutex
	ids []string
}

func (l *recordingListener) StockChanged(ctx context.Context, productID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = append(l.ids, productID)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) NotifyOrderEvent(ctx context.Context, event string, o *model.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event+":"+string(o.Status))
}

func TestOrderEventsAndStockListeners(t *testing.T) {
	notifier := &recordingNotifier{}
	listener := &recordingListener{}
	f := newFixture(t, Options{Notifier: notifier, StockListeners: []order.StockListener{listener}})
	f.product(t, "p1", "1", 10)
	ctx := context.Background()

	o, err := f.uc.CreateOrder(ctx, &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1, "p1", 2)})
	require.NoError(t, err)
	_, err = f.uc.UpdateOrderStatus(ctx, &dto.UpdateOrderStatusInput{OrderID: o.ID, Status: model.OrderDelivered, IsAdmin: true})
	require.NoError(t, err)

	assert.Equal(t, []string{order.EventCreated + ":pending", order.EventStatusChanged + ":delivered"}, notifier.events)
	// Duplicate lines of one product are reported once; a plain status change moves no stock.
	assert.Equal(t, []string{"p1"}, listener.ids)
}

// failingReload commits orders but cannot read them back.
type failingReload struct {
	order.Repository
}

func (r failingReload) FindByID(ctx context.Context, id string) (*model.Order, error) {
	return nil, errors.New("replica unavailable")
}

func TestCreateOrder_ReloadFailureIsLogged(t *testing.T) {
	s := memory.New()
	core, logs := observer.New(zapcore.WarnLevel)
	uc := NewOrderUseCase(
		failingReload{Repository: repository.NewMemoryRepository(s)},
		productRepo.NewMemoryRepository(s),
		Options{},
		logger.FromZap(zap.New(core)),
	)
	f := &fixture{store: s, uc: uc}
	f.product(t, "p1", "5", 3)

	o, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 2)})
	require.NoError(t, err)
	assert.Equal(t, "10", o.TotalAmount.String())
	assert.Equal(t, 1, f.stock("p1"))

	entries := logs.FilterMessage("failed to reload created order").All()
	require.Len(t, entries, 1)
	assert.Equal(t, o.ID, entries[0].ContextMap()["order_id"])
	assert.Equal(t, "replica unavailable", entries[0].ContextMap()["error"])
}

// gatedPublisher holds every publish until release is closed.
type gatedPublisher struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	events  []string
}

func (p *gatedPublisher) PublishOrderEvent(ctx context.Context, event string, o *model.Order) error {
	p.started <- struct{}{}
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func TestClose_WaitsForInflightPublishes(t *testing.T) {
	pub := &gatedPublisher{started: make(chan struct{}, 1), release: make(chan struct{})}
	f := newFixture(t, Options{Publisher: pub})
	f.product(t, "p1", "1", 5)

	_, err := f.uc.CreateOrder(context.Background(), &dto.CreateOrderInput{UserID: "u1", Items: items("p1", 1)})
	require.NoError(t, err)
	<-pub.started

	closed := make(chan struct{})
	go func() {
		f.uc.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a publish was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(pub.release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the publish finished")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []string{order.EventCreated}, pub.events)
}

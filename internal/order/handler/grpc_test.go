package handler

import (
	"context"
	"net"
	"testing"

	invHandler "github.com/fekuna/omnipos-wms-service/internal/inventory/handler"
	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	invUseCase "github.com/fekuna/omnipos-wms-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/middleware"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order/repository"
	"github.com/fekuna/omnipos-wms-service/internal/order/usecase"
	prodRepo "github.com/fekuna/omnipos-wms-service/internal/product/repository"
	"github.com/fekuna/omnipos-wms-service/internal/rpc/wmsv1"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) (*memory.Store, *grpc.ClientConn) {
	t.Helper()
	log := logger.NewNop()
	store := memory.New()
	require.NoError(t, store.Write(func(d *memory.Data) error {
		d.Products["p1"] = model.Product{
			BaseModel: model.BaseModel{ID: "p1"},
			SKU:       "HMR-01",
			Name:      "Hammer",
			Price:     decimal.NewFromInt(25000),
			Stock:     10,
			MinStock:  5,
			IsActive:  true,
		}
		return nil
	}))

	orders := usecase.NewOrderUseCase(repository.NewMemoryRepository(store), prodRepo.NewMemoryRepository(store), usecase.Options{}, log)
	inventory := invUseCase.NewInventoryUseCase(invRepo.NewMemoryRepository(store), log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(middleware.ContextInterceptor()))
	wmsv1.RegisterOrderServiceServer(srv, NewOrderHandler(orders, log))
	wmsv1.RegisterInventoryServiceServer(srv, invHandler.NewInventoryHandler(inventory, log))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return store, conn
}

func as(userID, role string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-user-id", userID, "x-user-role", role)
}

func TestOrderService(t *testing.T) {
	store, conn := startServer(t)
	client := wmsv1.NewOrderServiceClient(conn)

	_, err := client.CreateOrder(context.Background(), &wmsv1.CreateOrderRequest{
		Items: []*wmsv1.OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.CreateOrder(as("v1", "viewer"), &wmsv1.CreateOrderRequest{
		Items: []*wmsv1.OrderItem{{ProductID: "p1", Quantity: 1}},
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	o, err := client.CreateOrder(as("u1", "staff"), &wmsv1.CreateOrderRequest{
		Items: []*wmsv1.OrderItem{{ProductID: "p1", Quantity: 4, Price: "20000"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, "80000.00", o.TotalAmount)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Hammer", o.Items[0].ProductName)

	_, err = client.CreateOrder(as("u1", "staff"), &wmsv1.CreateOrderRequest{
		Items: []*wmsv1.OrderItem{{ProductID: "p1", Quantity: 7}},
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.CreateOrder(as("u1", "staff"), &wmsv1.CreateOrderRequest{
		Items: []*wmsv1.OrderItem{{ProductID: "p1", Quantity: 1, Price: "abc"}},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetOrder(as("u2", "staff"), &wmsv1.GetOrderRequest{ID: o.ID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = client.GetOrder(as("u1", "staff"), &wmsv1.GetOrderRequest{ID: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	updated, err := client.UpdateOrderStatus(as("admin", "admin"), &wmsv1.UpdateOrderStatusRequest{OrderID: o.ID, Status: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, "delivered", updated.Status)

	_, err = client.UpdateOrderStatus(as("admin", "admin"), &wmsv1.UpdateOrderStatusRequest{OrderID: o.ID, Status: "lost"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var stock int
	_ = store.Read(func(d *memory.Data) error {
		stock = d.Products["p1"].Stock
		return nil
	})
	assert.Equal(t, 6, stock)
}

func TestInventoryService(t *testing.T) {
	_, conn := startServer(t)
	client := wmsv1.NewInventoryServiceClient(conn)

	m, err := client.ApplyMovement(as("u1", "staff"), &wmsv1.ApplyMovementRequest{ProductID: "p1", Type: "in", Quantity: 5, Reason: "restock"})
	require.NoError(t, err)
	assert.Equal(t, int32(10), m.StockBefore)
	assert.Equal(t, int32(15), m.StockAfter)
	assert.Equal(t, "HMR-01", m.ProductSKU)

	_, err = client.ApplyMovement(as("u1", "staff"), &wmsv1.ApplyMovementRequest{ProductID: "p1", Type: "OUT", Quantity: 99})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.ApplyMovement(as("v1", "viewer"), &wmsv1.ApplyMovementRequest{ProductID: "p1", Type: "IN", Quantity: 1})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	list, err := client.ListMovements(as("v1", "viewer"), &wmsv1.ListMovementsRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), list.Total)
}

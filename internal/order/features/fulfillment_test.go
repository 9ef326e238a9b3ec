package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	catRepo "github.com/fekuna/omnipos-wms-service/internal/category/repository"
	invDto "github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	invUseCase "github.com/fekuna/omnipos-wms-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	orderDto "github.com/fekuna/omnipos-wms-service/internal/order/dto"
	orderRepo "github.com/fekuna/omnipos-wms-service/internal/order/repository"
	orderUseCase "github.com/fekuna/omnipos-wms-service/internal/order/usecase"
	prodDto "github.com/fekuna/omnipos-wms-service/internal/product/dto"
	prodRepo "github.com/fekuna/omnipos-wms-service/internal/product/repository"
	prodUseCase "github.com/fekuna/omnipos-wms-service/internal/product/usecase"
	rackRepo "github.com/fekuna/omnipos-wms-service/internal/racklocation/repository"
	reportRepo "github.com/fekuna/omnipos-wms-service/internal/report/repository"
	reportUseCase "github.com/fekuna/omnipos-wms-service/internal/report/usecase"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/shopspring/decimal"
)

type fulfillmentTestContext struct {
	store      *memory.Store
	restock    bool
	categoryID string
	products   map[string]string // sku -> id
	order      *model.Order
	err        error
}

func (c *fulfillmentTestContext) reset() {
	c.store = memory.New()
	c.restock = false
	c.categoryID = ""
	c.products = map[string]string{}
	c.order = nil
	c.err = nil
}

func (c *fulfillmentTestContext) orders() order.UseCase {
	return orderUseCase.NewOrderUseCase(
		orderRepo.NewMemoryRepository(c.store),
		prodRepo.NewMemoryRepository(c.store),
		orderUseCase.Options{CancellationRestocks: c.restock},
		logger.NewNop(),
	)
}

func (c *fulfillmentTestContext) aCategory(name string) error {
	c.categoryID = "cat-" + name
	return c.store.Write(func(d *memory.Data) error {
		d.Categories[c.categoryID] = model.Category{BaseModel: model.BaseModel{ID: c.categoryID}, Name: name}
		return nil
	})
}

func (c *fulfillmentTestContext) aProduct(sku string, price, stock, minStock int) error {
	uc := prodUseCase.NewProductUseCase(
		prodRepo.NewMemoryRepository(c.store),
		catRepo.NewMemoryRepository(c.store),
		rackRepo.NewMemoryRepository(c.store),
		nil, nil, logger.NewNop(),
	)
	p, err := uc.CreateProduct(context.Background(), &prodDto.CreateProductInput{
		SKU:        sku,
		Name:       "Product " + sku,
		CategoryID: c.categoryID,
		Price:      decimal.NewFromInt(int64(price)),
		Stock:      stock,
		MinStock:   minStock,
		UserID:     "admin",
	})
	if err != nil {
		return err
	}
	c.products[sku] = p.ID
	return nil
}

func (c *fulfillmentTestContext) cancelledOrdersAreRestocked() error {
	c.restock = true
	return nil
}

func (c *fulfillmentTestContext) userOrders(userID string, qty int, sku string) error {
	return c.place(userID, orderDto.OrderItemInput{ProductID: c.products[sku], Quantity: qty})
}

func (c *fulfillmentTestContext) userOrdersTwo(userID string, qty1 int, sku1 string, qty2 int, sku2 string) error {
	return c.place(userID,
		orderDto.OrderItemInput{ProductID: c.products[sku1], Quantity: qty1},
		orderDto.OrderItemInput{ProductID: c.products[sku2], Quantity: qty2},
	)
}

func (c *fulfillmentTestContext) place(userID string, items ...orderDto.OrderItemInput) error {
	c.order, c.err = c.orders().CreateOrder(context.Background(), &orderDto.CreateOrderInput{UserID: userID, Items: items})
	return nil
}

func (c *fulfillmentTestContext) staffWithdraws(qty int, sku string) error {
	uc := invUseCase.NewInventoryUseCase(invRepo.NewMemoryRepository(c.store), logger.NewNop())
	_, c.err = uc.ApplyMovement(context.Background(), &invDto.ApplyMovementInput{
		ProductID: c.products[sku],
		Type:      model.MovementOut,
		Quantity:  qty,
		Reason:    "manual",
		UserID:    "staff",
	})
	return nil
}

func (c *fulfillmentTestContext) theOrderIsMovedTo(status string) error {
	if c.order == nil {
		return errors.New("no order was placed")
	}
	_, err := c.orders().UpdateOrderStatus(context.Background(), &orderDto.UpdateOrderStatusInput{
		OrderID: c.order.ID,
		Status:  model.OrderStatus(status),
		UserID:  c.order.UserID,
	})
	return err
}

func (c *fulfillmentTestContext) theOrderIsAcceptedWithTotal(total int) error {
	if c.err != nil {
		return fmt.Errorf("expected order to be accepted, got %v", c.err)
	}
	if !c.order.TotalAmount.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, c.order.TotalAmount)
	}
	return nil
}

func (c *fulfillmentTestContext) theRequestFailsWithInsufficientStock() error {
	if !errors.Is(c.err, apperror.ErrInsufficientStock) {
		return fmt.Errorf("expected insufficient stock, got %v", c.err)
	}
	return nil
}

func (c *fulfillmentTestContext) theStockOfIs(sku string, stock int) error {
	var got int
	_ = c.store.Read(func(d *memory.Data) error {
		got = d.Products[c.products[sku]].Stock
		return nil
	})
	if got != stock {
		return fmt.Errorf("expected stock of %s to be %d, got %d", sku, stock, got)
	}
	return nil
}

func (c *fulfillmentTestContext) isReportedAsLowStock(sku string) error {
	uc := reportUseCase.NewReportUseCase(reportRepo.NewMemoryRepository(c.store), logger.NewNop())
	low, err := uc.LowStock(context.Background())
	if err != nil {
		return err
	}
	for _, p := range low {
		if p.SKU == sku {
			return nil
		}
	}
	return fmt.Errorf("expected %s in the low stock report", sku)
}

func (c *fulfillmentTestContext) theLedgerForHasMovements(sku string, n int) error {
	uc := invUseCase.NewInventoryUseCase(invRepo.NewMemoryRepository(c.store), logger.NewNop())
	_, total, err := uc.ListMovements(context.Background(), &invDto.MovementFilters{ProductID: c.products[sku]})
	if err != nil {
		return err
	}
	if total != n {
		return fmt.Errorf("expected %d movements for %s, got %d", n, sku, total)
	}
	return nil
}

func (c *fulfillmentTestContext) theLedgerHasNoDrift() error {
	uc := invUseCase.NewInventoryUseCase(invRepo.NewMemoryRepository(c.store), logger.NewNop())
	drift, err := uc.Reconcile(context.Background())
	if err != nil {
		return err
	}
	if len(drift) > 0 {
		return fmt.Errorf("expected no drift, got %+v", drift)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &fulfillmentTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^a category "([^"]*)"$`, tc.aCategory)
	ctx.Step(`^a product "([^"]*)" priced (\d+) with stock (\d+) and minimum stock (\d+)$`, tc.aProduct)
	ctx.Step(`^cancelled orders are restocked$`, tc.cancelledOrdersAreRestocked)
	ctx.Step(`^user "([^"]*)" orders (\d+) of "([^"]*)"$`, tc.userOrders)
	ctx.Step(`^user "([^"]*)" orders (\d+) of "([^"]*)" and (\d+) of "([^"]*)"$`, tc.userOrdersTwo)
	ctx.Step(`^a staff member withdraws (\d+) of "([^"]*)"$`, tc.staffWithdraws)
	ctx.Step(`^the order is moved to "([^"]*)"$`, tc.theOrderIsMovedTo)
	ctx.Step(`^the order is accepted with total (\d+)$`, tc.theOrderIsAcceptedWithTotal)
	ctx.Step(`^the request fails with insufficient stock$`, tc.theRequestFailsWithInsufficientStock)
	ctx.Step(`^the stock of "([^"]*)" is (\d+)$`, tc.theStockOfIs)
	ctx.Step(`^"([^"]*)" is reported as low stock$`, tc.isReportedAsLowStock)
	ctx.Step(`^the ledger for "([^"]*)" has (\d+) movements$`, tc.theLedgerForHasMovements)
	ctx.Step(`^the ledger has no drift$`, tc.theLedgerHasNoDrift)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"fulfillment.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

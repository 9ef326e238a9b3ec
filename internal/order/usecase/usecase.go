package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/fekuna/omnipos-wms-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Options struct {
	// CancellationRestocks returns stock to the ledger when an order is
	// cancelled and deducts it again when a cancelled order is reopened.
	CancellationRestocks bool
	Notifier             order.EventNotifier    // optional
	Publisher            order.EventPublisher   // optional
	Idempotency          order.IdempotencyStore // optional
	StockListeners       []order.StockListener
}

type orderUseCase struct {
	repo     order.Repository
	products order.ProductReader
	opts     Options
	numbers  *numberGenerator
	logger   logger.ZapLogger
	now      func() time.Time
	inflight sync.WaitGroup // broker publishes not yet finished
}

func NewOrderUseCase(repo order.Repository, products order.ProductReader, opts Options, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		products: products,
		opts:     opts,
		numbers:  newNumberGenerator(time.Now),
		logger:   log,
		now:      time.Now,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (created *model.Order, err error) {
	// 1. Shape checks
	if len(input.Items) == 0 {
		return nil, apperror.ErrEmptyOrder
	}
	status := input.Status
	if status == "" {
		status = model.OrderPending
	}
	if !status.Valid() {
		return nil, apperror.ErrInvalidStatus
	}
	if status == model.OrderCancelled {
		return nil, apperror.Validation("status", "an order cannot be created cancelled")
	}
	for i, item := range input.Items {
		if item.ProductID == "" {
			return nil, apperror.Validation(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.Quantity <= 0 {
			return nil, apperror.Validation(fmt.Sprintf("items[%d].quantity", i), "must be a positive integer")
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, apperror.Validation(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}
	}

	if input.IdempotencyKey != "" && uc.opts.Idempotency != nil {
		token, ok, reserveErr := uc.opts.Idempotency.Reserve(ctx, input.IdempotencyKey)
		switch {
		case reserveErr != nil:
			uc.logger.Warn("idempotency store unavailable, continuing without it", zap.Error(reserveErr))
		case !ok:
			return nil, apperror.Conflict("an order with this idempotency key was already submitted")
		default:
			// Free the key again when creation fails so the client can resubmit.
			defer func() {
				if err != nil {
					uc.opts.Idempotency.Release(context.Background(), input.IdempotencyKey, token)
				}
			}()
		}
	}

	// 2. Resolve every product
	ids := make([]string, 0, len(input.Items))
	seen := map[string]bool{}
	for _, item := range input.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	found, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[string]model.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	// 3. Sufficiency for the whole item set before anything is written
	requested := map[string]int{}
	for _, item := range input.Items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, apperror.NotFound("product", item.ProductID)
		}
		if !p.IsActive {
			return nil, apperror.Validation("product_id", fmt.Sprintf("product %s is archived", p.Name))
		}
		requested[p.ID] += item.Quantity
		if p.Stock < requested[p.ID] {
			return nil, &apperror.StockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   requested[p.ID],
			}
		}
	}

	// 4. Totals from price snapshots
	now := uc.now()
	o := &model.Order{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OrderNumber: uc.numbers.Next(),
		Status:      status,
		UserID:      input.UserID,
		Items:       make([]model.OrderItem, len(input.Items)),
	}
	total := decimal.Zero
	for i, item := range input.Items {
		price := products[item.ProductID].Price
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		o.Items[i] = model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price.Round(2),
		}
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total.Round(2)

	// 5. Persist with one OUT movement per item, in item order
	movements := uc.itemMovements(o, model.MovementOut, "order:", input.UserID, now)
	if err := uc.repo.Create(ctx, o, movements); err != nil {
		return nil, err
	}

	uc.logger.Info("Order created",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total_amount", o.TotalAmount.StringFixed(2)),
		zap.Int("items", len(o.Items)),
	)

	uc.stockChanged(ctx, movements)

	// 6. Reload with product projections
	created, err = uc.repo.FindByID(ctx, o.ID)
	if err != nil {
		uc.logger.Warn("failed to reload created order",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
	if err != nil || created == nil {
		created = o
		err = nil
	}
	uc.emit(order.EventCreated, created)
	return created, nil
}

func (uc *orderUseCase) itemMovements(o *model.Order, t model.MovementType, prefix, userID string, at time.Time) []*model.InventoryMovement {
	ref := o.ID
	movements := make([]*model.InventoryMovement, len(o.Items))
	for i, item := range o.Items {
		movements[i] = &model.InventoryMovement{
			ID:          uuid.New().String(),
			ProductID:   item.ProductID,
			Type:        t,
			Quantity:    item.Quantity,
			Reason:      prefix + o.OrderNumber,
			ReferenceID: &ref,
			CreatedBy:   userID,
			CreatedAt:   at,
		}
	}
	return movements
}

func (uc *orderUseCase) UpdateOrderStatus(ctx context.Context, input *dto.UpdateOrderStatusInput) (*model.Order, error) {
	if !input.Status.Valid() {
		return nil, apperror.ErrInvalidStatus
	}

	o, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", input.OrderID)
	}
	if !input.IsAdmin && o.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}
	if o.Status == input.Status {
		return o, nil
	}

	from := o.Status
	now := uc.now()

	var movements []*model.InventoryMovement
	if uc.opts.CancellationRestocks {
		switch {
		case input.Status == model.OrderCancelled:
			movements = uc.itemMovements(o, model.MovementIn, "order-cancel:", input.UserID, now)
		case from == model.OrderCancelled:
			movements = uc.itemMovements(o, model.MovementOut, "order-reopen:", input.UserID, now)
		}
	}

	o.Status = input.Status
	o.UpdatedAt = now
	if err := uc.repo.UpdateStatus(ctx, o, from, movements); err != nil {
		return nil, err
	}

	uc.logger.Info("Order status updated",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.Int("movements", len(movements)),
	)

	uc.stockChanged(ctx, movements)
	uc.emit(order.EventStatusChanged, o)
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("order", id)
	}
	if !isAdmin && o.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	if filters.Status != "" && !model.OrderStatus(filters.Status).Valid() {
		return nil, 0, apperror.ErrInvalidStatus
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) stockChanged(ctx context.Context, movements []*model.InventoryMovement) {
	seen := map[string]bool{}
	for _, m := range movements {
		if seen[m.ProductID] {
			continue
		}
		seen[m.ProductID] = true
		for _, l := range uc.opts.StockListeners {
			l.StockChanged(ctx, m.ProductID)
		}
	}
}

// emit hands a committed event to the notifier and the broker without waiting on either.
func (uc *orderUseCase) emit(event string, o *model.Order) {
	if uc.opts.Notifier != nil {
		uc.opts.Notifier.NotifyOrderEvent(context.Background(), event, o)
	}
	if uc.opts.Publisher != nil {
		snapshot := *o
		uc.inflight.Add(1)
		go func() {
			defer uc.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := uc.opts.Publisher.PublishOrderEvent(ctx, event, &snapshot); err != nil {
				uc.logger.Error("failed to publish order event",
					zap.String("event", event),
					zap.String("order_id", snapshot.ID),
					zap.Error(err),
				)
			}
		}()
	}
}

// Close waits for in-flight broker publishes. Call it after the transports
// stop accepting requests and before the producer is closed.
func (uc *orderUseCase) Close() {
	uc.inflight.Wait()
}

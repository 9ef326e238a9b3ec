package publisher

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order"
	"github.com/google/uuid"
)

type JSONProducer interface {
	PublishJSON(ctx context.Context, key string, value interface{}) error
}

// KafkaOrderPublisher writes committed order events to the orders topic,
// keyed by order id so one order's events stay ordered.
type KafkaOrderPublisher struct {
	producer JSONProducer
	now      func() time.Time
}

func NewKafkaOrderPublisher(producer JSONProducer) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{producer: producer, now: time.Now}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Status      string             `json:"status"`
	TotalAmount string             `json:"total_amount"`
	UserID      string             `json:"user_id"`
	Items       []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

func (p *KafkaOrderPublisher) PublishOrderEvent(ctx context.Context, event string, o *model.Order) error {
	payload := OrderPayload{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.StringFixed(2),
		UserID:      o.UserID,
		Items:       make([]OrderItemPayload, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		payload.Items = append(payload.Items, OrderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
		})
	}

	return p.producer.PublishJSON(ctx, o.ID, OrderEvent{
		EventID:   uuid.NewString(),
		EventType: eventType(event),
		Payload:   payload,
		Timestamp: p.now().UTC(),
	})
}

func eventType(event string) string {
	switch event {
	case order.EventCreated:
		return "OrderCreated"
	case order.EventStatusChanged:
		return "OrderStatusChanged"
	default:
		return event
	}
}

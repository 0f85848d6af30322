package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderCancelled     = "OrderCancelled"
	EventOrderStatusUpdated = "OrderStatusUpdated"
)

// Publisher is satisfied by the kafka producer. Helpers below accept nil
// so event wiring stays optional.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID     string             `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	UserID      string             `json:"user_id"`
	Items       []OrderItemPayload `json:"items"`
	TotalAmount float64            `json:"total_amount"`
}

type OrderCancelledPayload struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Items   []OrderItemPayload `json:"items"` // restocked quantities
}

type OrderStatusUpdatedPayload struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	From    domain.OrderStatus `json:"from"`
	To      domain.OrderStatus `json:"to"`
}

// StatusCache is the value stored under the redis order status key. The
// owner id rides along so cached reads can enforce ownership without a
// database round trip; it is stripped before the value is served.
type StatusCache struct {
	Status    domain.OrderStatus `json:"status"`
	UpdatedAt time.Time          `json:"updated_at"`
	UserID    string             `json:"user_id"`
}

func publish(pub Publisher, producer, eventType, orderID string, payload any) {
	if pub == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: orderID,
		Payload:       body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return
	}
	pub.Publish(PartitionKey(orderID), value,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func itemPayloads(items []domain.OrderItem) []OrderItemPayload {
	out := make([]OrderItemPayload, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItemPayload{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return out
}

func PublishOrderCreated(pub Publisher, producer string, o *domain.Order) {
	publish(pub, producer, EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       itemPayloads(o.Items),
		TotalAmount: o.TotalAmount,
	})
}

func PublishOrderCancelled(pub Publisher, producer string, o *domain.Order) {
	publish(pub, producer, EventOrderCancelled, o.ID, OrderCancelledPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Items:   itemPayloads(o.Items),
	})
}

func PublishOrderStatusUpdated(pub Publisher, producer string, o *domain.Order, from domain.OrderStatus) {
	publish(pub, producer, EventOrderStatusUpdated, o.ID, OrderStatusUpdatedPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		From:    from,
		To:      o.Status,
	})
}

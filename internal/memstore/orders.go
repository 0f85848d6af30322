package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

// loadOrder attaches items and payments so every order returned from the
// store is complete, matching the postgres implementation.
func (t *Tx) loadOrder(o domain.Order) *domain.Order {
	o.Items, _ = t.OrderItems(context.Background(), o.ID)
	o.Payments, _ = t.Payments(context.Background(), o.ID)
	return &o
}

func (t *Tx) InsertOrder(_ context.Context, order *domain.Order) error {
	stored := *order
	stored.Items = nil
	stored.Payments = nil
	t.st.orders[order.ID] = stored
	return nil
}

func (t *Tx) InsertOrderItem(_ context.Context, item *domain.OrderItem) error {
	t.st.orderItems[item.ID] = *item
	return nil
}

func (t *Tx) InsertPayment(_ context.Context, payment *domain.Payment) error {
	t.st.payments[payment.ID] = *payment
	return nil
}

func (t *Tx) Order(_ context.Context, id string) (*domain.Order, error) {
	o, ok := t.st.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order not found")
	}
	return t.loadOrder(o), nil
}

func (t *Tx) OrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	return t.Order(ctx, id)
}

func (t *Tx) OrderByNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	for _, o := range t.st.orders {
		if o.OrderNumber == orderNumber {
			return t.loadOrder(o), nil
		}
	}
	return nil, domain.NotFoundf("order not found")
}

func (t *Tx) OrderByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	for _, o := range t.st.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			return t.loadOrder(o), nil
		}
	}
	return nil, domain.NotFoundf("order not found")
}

func (t *Tx) OrderItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for _, item := range t.st.orderItems {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Tx) listOrders(match func(domain.Order) bool) []domain.Order {
	var out []domain.Order
	for _, o := range t.st.orders {
		if match(o) {
			out = append(out, *t.loadOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (t *Tx) UserOrders(_ context.Context, userID string) ([]domain.Order, error) {
	return t.listOrders(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (t *Tx) AllOrders(_ context.Context) ([]domain.Order, error) {
	return t.listOrders(func(domain.Order) bool { return true }), nil
}

func (t *Tx) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := t.st.orders[id]
	if !ok {
		return domain.NotFoundf("order not found")
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	t.st.orders[id] = o
	return nil
}

func (t *Tx) Payments(_ context.Context, orderID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range t.st.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *Tx) UpdatePayment(_ context.Context, payment *domain.Payment) error {
	if _, ok := t.st.payments[payment.ID]; !ok {
		return domain.NotFoundf("payment not found")
	}
	t.st.payments[payment.ID] = *payment
	return nil
}

func (t *Tx) PaymentByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	for _, p := range t.st.payments {
		if p.TransactionID == transactionID {
			return &p, nil
		}
	}
	return nil, domain.NotFoundf("payment not found")
}

package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const orderColumns = `id, order_number, user_id, address_id, coupon_id, idempotency_key, status,
	subtotal, shipping_cost, discount_amount, total_amount, created_at, updated_at`

func (t *Tx) scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.CouponID, &o.IdempotencyKey,
		&o.Status, &o.Subtotal, &o.ShippingCost, &o.DiscountAmount, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("order not found")
		}
		return nil, err
	}
	return &o, nil
}

// loadOrder attaches items and payments; every order returned from this
// package is complete.
func (t *Tx) loadOrder(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	var err error
	if o.Items, err = t.OrderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	if o.Payments, err = t.Payments(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (t *Tx) Order(ctx context.Context, id string) (*domain.Order, error) {
	o, err := t.scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	return t.loadOrder(ctx, o)
}

func (t *Tx) OrderForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	o, err := t.scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	return t.loadOrder(ctx, o)
}

func (t *Tx) OrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	o, err := t.scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	return t.loadOrder(ctx, o)
}

func (t *Tx) OrderByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	o, err := t.scanOrder(t.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE idempotency_key=$1`, key))
	if err != nil {
		return nil, err
	}
	return t.loadOrder(ctx, o)
}

func (t *Tx) InsertOrder(ctx context.Context, order *domain.Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, order_number, user_id, address_id, coupon_id, idempotency_key, status,
			subtotal, shipping_cost, discount_amount, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.OrderNumber, order.UserID, order.AddressID, order.CouponID, order.IdempotencyKey,
		order.Status, order.Subtotal, order.ShippingCost, order.DiscountAmount, order.TotalAmount,
		order.CreatedAt, order.UpdatedAt)
	return err
}

func (t *Tx) InsertOrderItem(ctx context.Context, item *domain.OrderItem) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_items(id, order_id, product_id, variant_id, quantity, price, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.OrderID, item.ProductID, item.VariantID, item.Quantity, item.Price, item.Snapshot)
	return err
}

func (t *Tx) OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, order_id, product_id, variant_id, quantity, price, data
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Quantity, &item.Price, &item.Snapshot); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (t *Tx) UserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return t.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (t *Tx) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return t.listOrders(ctx, `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
}

func (t *Tx) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := t.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if _, err := t.loadOrder(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Tx) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("order not found")
	}
	return nil
}

const paymentColumns = `id, order_id, provider, amount, status, transaction_id, created_at`

func (t *Tx) InsertPayment(ctx context.Context, payment *domain.Payment) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO payments(id, order_id, provider, amount, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		payment.ID, payment.OrderID, payment.Provider, payment.Amount, payment.Status, payment.TransactionID, payment.CreatedAt)
	return err
}

func (t *Tx) Payments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id=$1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Provider, &p.Amount, &p.Status, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (t *Tx) UpdatePayment(ctx context.Context, payment *domain.Payment) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE payments SET status=$2, transaction_id=$3 WHERE id=$1`,
		payment.ID, payment.Status, payment.TransactionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("payment not found")
	}
	return nil
}

func (t *Tx) PaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	var p domain.Payment
	err := t.tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id=$1`, transactionID).
		Scan(&p.ID, &p.OrderID, &p.Provider, &p.Amount, &p.Status, &p.TransactionID, &p.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("payment not found")
		}
		return nil, err
	}
	return &p, nil
}

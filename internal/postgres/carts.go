package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const cartColumns = `id, user_id, session_id, created_at, updated_at`

func (t *Tx) scanCart(row interface{ Scan(...any) error }) (*domain.Cart, error) {
	var c domain.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.SessionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("cart not found")
		}
		return nil, err
	}
	return &c, nil
}

func (t *Tx) CartByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	if userID, ok := owner.UserID(); ok {
		return t.scanCart(t.tx.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id=$1`, userID))
	}
	if sessionID, ok := owner.SessionID(); ok {
		return t.scanCart(t.tx.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE session_id=$1`, sessionID))
	}
	return nil, domain.Invalidf("user id or session id is required")
}

func (t *Tx) CartForUpdate(ctx context.Context, id string) (*domain.Cart, error) {
	return t.scanCart(t.tx.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id=$1 FOR UPDATE`, id))
}

func (t *Tx) CreateCart(ctx context.Context, cart *domain.Cart) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO carts(id, user_id, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		cart.ID, cart.UserID, cart.SessionID, cart.CreatedAt, cart.UpdatedAt)
	return err
}

func (t *Tx) UpdateCartIdentity(ctx context.Context, id string, userID, sessionID *string) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE carts SET user_id=$2, session_id=$3, updated_at=now() WHERE id=$1`,
		id, userID, sessionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("cart not found")
	}
	return nil
}

func (t *Tx) DeleteCart(ctx context.Context, id string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM carts WHERE id=$1`, id)
	return err
}

const cartItemColumns = `id, cart_id, product_id, variant_id, quantity, created_at`

func (t *Tx) CartItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id=$1 ORDER BY created_at DESC`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.VariantID, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (t *Tx) InsertCartItem(ctx context.Context, item *domain.CartItem) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cart_items(id, cart_id, product_id, variant_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.CartID, item.ProductID, item.VariantID, item.Quantity, item.CreatedAt)
	return err
}

func (t *Tx) UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE cart_items SET quantity=$2 WHERE id=$1`, itemID, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("cart item not found")
	}
	return nil
}

func (t *Tx) ReassignCartItem(ctx context.Context, itemID, newCartID string) error {
	ct, err := t.tx.Exec(ctx, `UPDATE cart_items SET cart_id=$2 WHERE id=$1`, itemID, newCartID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("cart item not found")
	}
	return nil
}

func (t *Tx) DeleteCartItem(ctx context.Context, itemID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM cart_items WHERE id=$1`, itemID)
	return err
}

func (t *Tx) DeleteCartItems(ctx context.Context, cartID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}

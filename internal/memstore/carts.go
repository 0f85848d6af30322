package memstore

import (
	"context"
	"sort"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) CartByOwner(_ context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	if userID, ok := owner.UserID(); ok {
		for _, c := range t.st.carts {
			if c.UserID != nil && *c.UserID == userID {
				return &c, nil
			}
		}
		return nil, domain.NotFoundf("cart not found")
	}
	if sessionID, ok := owner.SessionID(); ok {
		for _, c := range t.st.carts {
			if c.SessionID != nil && *c.SessionID == sessionID {
				return &c, nil
			}
		}
		return nil, domain.NotFoundf("cart not found")
	}
	return nil, domain.Invalidf("user id or session id is required")
}

func (t *Tx) CartForUpdate(_ context.Context, id string) (*domain.Cart, error) {
	c, ok := t.st.carts[id]
	if !ok {
		return nil, domain.NotFoundf("cart not found")
	}
	return &c, nil
}

func (t *Tx) CreateCart(_ context.Context, cart *domain.Cart) error {
	t.st.carts[cart.ID] = *cart
	return nil
}

func (t *Tx) UpdateCartIdentity(_ context.Context, id string, userID, sessionID *string) error {
	c, ok := t.st.carts[id]
	if !ok {
		return domain.NotFoundf("cart not found")
	}
	c.UserID = userID
	c.SessionID = sessionID
	t.st.carts[id] = c
	return nil
}

func (t *Tx) DeleteCart(_ context.Context, id string) error {
	delete(t.st.carts, id)
	for itemID, item := range t.st.cartItems {
		if item.CartID == id {
			delete(t.st.cartItems, itemID)
		}
	}
	return nil
}

func (t *Tx) CartItems(_ context.Context, cartID string) ([]domain.CartItem, error) {
	var out []domain.CartItem
	for _, item := range t.st.cartItems {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (t *Tx) InsertCartItem(_ context.Context, item *domain.CartItem) error {
	t.st.cartItems[item.ID] = *item
	return nil
}

func (t *Tx) UpdateCartItemQuantity(_ context.Context, itemID string, quantity int) error {
	item, ok := t.st.cartItems[itemID]
	if !ok {
		return domain.NotFoundf("cart item not found")
	}
	item.Quantity = quantity
	t.st.cartItems[itemID] = item
	return nil
}

func (t *Tx) ReassignCartItem(_ context.Context, itemID, newCartID string) error {
	item, ok := t.st.cartItems[itemID]
	if !ok {
		return domain.NotFoundf("cart item not found")
	}
	item.CartID = newCartID
	t.st.cartItems[itemID] = item
	return nil
}

func (t *Tx) DeleteCartItem(_ context.Context, itemID string) error {
	delete(t.st.cartItems, itemID)
	return nil
}

func (t *Tx) DeleteCartItems(_ context.Context, cartID string) error {
	for itemID, item := range t.st.cartItems {
		if item.CartID == cartID {
			delete(t.st.cartItems, itemID)
		}
	}
	return nil
}

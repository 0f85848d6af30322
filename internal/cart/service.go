// Package cart owns the cart aggregate: one cart per owner (user or
// anonymous session), at most one line per (product, variant) pair, and
// every mutation moves stock through the inventory ledger inside the same
// transaction, so cart state and stock state never diverge.
package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/inventory"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Service struct {
	db  storage.DB
	now func() time.Time
}

func NewService(db storage.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Get returns the owner's cart, creating an empty one when none exists.
func (s *Service) Get(ctx context.Context, owner domain.CartOwner) (*View, error) {
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		c, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, c)
		return err
	})
	return view, err
}

// AddItem reserves stock for quantity and adds it to the owner's cart.
// If a line for the same (product, variant) already exists its quantity is
// incremented; only the increment is validated against stock.
func (s *Service) AddItem(ctx context.Context, owner domain.CartOwner, productID string, variantID *string, quantity int) (*View, error) {
	if quantity <= 0 {
		return nil, domain.Invalidf("quantity must be positive")
	}
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		c, err := s.getOrCreateLocked(ctx, tx, owner)
		if err != nil {
			return err
		}

		if err := inventory.ReserveTx(ctx, tx, productID, variantID, quantity); err != nil {
			return err
		}

		items, err := tx.CartItems(ctx, c.ID)
		if err != nil {
			return err
		}
		if existing := findLine(items, productID, variantID); existing != nil {
			if err := tx.UpdateCartItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
		} else {
			item := &domain.CartItem{
				ID:        uuid.NewString(),
				CartID:    c.ID,
				ProductID: productID,
				VariantID: variantID,
				Quantity:  quantity,
				CreatedAt: s.now(),
			}
			if err := tx.InsertCartItem(ctx, item); err != nil {
				return err
			}
		}

		view, err = s.buildView(ctx, tx, c)
		return err
	})
	return view, err
}

// UpdateItemQuantity sets the line to quantity, reserving or releasing
// only the difference from the current quantity.
func (s *Service) UpdateItemQuantity(ctx context.Context, owner domain.CartOwner, productID string, variantID *string, quantity int) (*View, error) {
	if quantity <= 0 {
		return nil, domain.Invalidf("quantity must be positive")
	}
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		c, err := s.getOrCreateLocked(ctx, tx, owner)
		if err != nil {
			return err
		}

		items, err := tx.CartItems(ctx, c.ID)
		if err != nil {
			return err
		}
		item := findLine(items, productID, variantID)
		if item == nil {
			return domain.NotFoundf("item not found in cart")
		}

		delta := quantity - item.Quantity
		if delta > 0 {
			if err := inventory.ReserveTx(ctx, tx, productID, variantID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := inventory.ReleaseTx(ctx, tx, productID, variantID, -delta); err != nil {
				return err
			}
		}

		if err := tx.UpdateCartItemQuantity(ctx, item.ID, quantity); err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, c)
		return err
	})
	return view, err
}

// RemoveItem releases the line's full quantity and deletes it.
func (s *Service) RemoveItem(ctx context.Context, owner domain.CartOwner, productID string, variantID *string) (*View, error) {
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		c, err := s.getOrCreateLocked(ctx, tx, owner)
		if err != nil {
			return err
		}

		items, err := tx.CartItems(ctx, c.ID)
		if err != nil {
			return err
		}
		item := findLine(items, productID, variantID)
		if item == nil {
			return domain.NotFoundf("item not found in cart")
		}

		if err := inventory.ReleaseTx(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			return err
		}
		if err := tx.DeleteCartItem(ctx, item.ID); err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, c)
		return err
	})
	return view, err
}

// Clear releases every line's stock and deletes all lines.
func (s *Service) Clear(ctx context.Context, owner domain.CartOwner) (*View, error) {
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		c, err := s.getOrCreateLocked(ctx, tx, owner)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, c.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := inventory.ReleaseTx(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.DeleteCartItems(ctx, c.ID); err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, c)
		return err
	})
	return view, err
}

func (s *Service) getOrCreate(ctx context.Context, tx storage.Tx, owner domain.CartOwner) (*domain.Cart, error) {
	if owner.IsZero() {
		return nil, domain.Invalidf("user id or session id is required")
	}
	c, err := tx.CartByOwner(ctx, owner)
	if err == nil {
		return c, nil
	}
	if !domain.IsCode(err, domain.CodeNotFound) {
		return nil, err
	}

	c = &domain.Cart{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if userID, ok := owner.UserID(); ok {
		c.UserID = &userID
	}
	if sessionID, ok := owner.SessionID(); ok {
		c.SessionID = &sessionID
	}
	if err := tx.CreateCart(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// getOrCreateLocked resolves the cart and takes its row lock, serializing
// concurrent mutations on the same cart.
func (s *Service) getOrCreateLocked(ctx context.Context, tx storage.Tx, owner domain.CartOwner) (*domain.Cart, error) {
	c, err := s.getOrCreate(ctx, tx, owner)
	if err != nil {
		return nil, err
	}
	return tx.CartForUpdate(ctx, c.ID)
}

func findLine(items []domain.CartItem, productID string, variantID *string) *domain.CartItem {
	for i := range items {
		if items[i].SameLine(productID, variantID) {
			return &items[i]
		}
	}
	return nil
}

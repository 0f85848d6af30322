package cart

import (
	"context"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

// Merge reconciles a guest cart and a user cart when a session
// authenticates. Quantities for matching (product, variant) lines are
// added together without touching stock: both carts already hold their
// reservations, so the merge is purely additive at the data level. The
// guest cart row is deleted afterwards, which makes a second Merge with
// the same identities a no-op.
func (s *Service) Merge(ctx context.Context, userID, sessionID string) (*View, error) {
	if userID == "" || sessionID == "" {
		return nil, domain.Invalidf("user id and session id are required")
	}
	var view *View
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		guest, err := tx.CartByOwner(ctx, domain.GuestOwner(sessionID))
		if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
			return err
		}
		user, err := tx.CartByOwner(ctx, domain.UserOwner(userID))
		if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
			return err
		}

		target, err := s.mergeInto(ctx, tx, guest, user, userID, sessionID)
		if err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, target)
		return err
	})
	return view, err
}

func (s *Service) mergeInto(ctx context.Context, tx storage.Tx, guest, user *domain.Cart, userID, sessionID string) (*domain.Cart, error) {
	switch {
	case guest == nil && user == nil:
		c := &domain.Cart{
			ID:        uuid.NewString(),
			UserID:    &userID,
			SessionID: &sessionID,
			CreatedAt: s.now(),
			UpdatedAt: s.now(),
		}
		if err := tx.CreateCart(ctx, c); err != nil {
			return nil, err
		}
		return c, nil

	case user == nil:
		// Only the guest cart exists: rebind it to the user.
		if err := tx.UpdateCartIdentity(ctx, guest.ID, &userID, &sessionID); err != nil {
			return nil, err
		}
		return tx.CartForUpdate(ctx, guest.ID)

	case guest == nil:
		// Only the user cart exists: also bind the session, so a repeated
		// merge with the same identities stays a no-op.
		if err := tx.UpdateCartIdentity(ctx, user.ID, &userID, &sessionID); err != nil {
			return nil, err
		}
		return tx.CartForUpdate(ctx, user.ID)

	case guest.ID == user.ID:
		return user, nil
	}

	// Both exist and are distinct. Lock both in a stable order.
	first, second := guest.ID, user.ID
	if second < first {
		first, second = second, first
	}
	if _, err := tx.CartForUpdate(ctx, first); err != nil {
		return nil, err
	}
	if _, err := tx.CartForUpdate(ctx, second); err != nil {
		return nil, err
	}

	guestItems, err := tx.CartItems(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	userItems, err := tx.CartItems(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	for _, item := range guestItems {
		if existing := findLine(userItems, item.ProductID, item.VariantID); existing != nil {
			if err := tx.UpdateCartItemQuantity(ctx, existing.ID, existing.Quantity+item.Quantity); err != nil {
				return nil, err
			}
		} else {
			if err := tx.ReassignCartItem(ctx, item.ID, user.ID); err != nil {
				return nil, err
			}
		}
	}

	// Delete the guest cart first to free the session id, then bind both
	// identities to the surviving cart.
	if err := tx.DeleteCart(ctx, guest.ID); err != nil {
		return nil, err
	}
	if err := tx.UpdateCartIdentity(ctx, user.ID, &userID, &sessionID); err != nil {
		return nil, err
	}
	return tx.CartForUpdate(ctx, user.ID)
}

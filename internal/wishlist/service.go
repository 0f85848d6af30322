// Package wishlist is the cart's stockless sibling: a per-owner product
// list with the same guest/user identity model and login-time merge, but
// no inventory interplay.
package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Service struct {
	db  storage.DB
	now func() time.Time
}

func NewService(db storage.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) Get(ctx context.Context, owner domain.CartOwner) (*domain.Wishlist, error) {
	var w *domain.Wishlist
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		w, err = s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		w.Items, err = tx.WishlistItems(ctx, w.ID)
		return err
	})
	return w, err
}

// AddItem adds a product once; adding an already-listed product is a
// no-op.
func (s *Service) AddItem(ctx context.Context, owner domain.CartOwner, productID string) (*domain.Wishlist, error) {
	var w *domain.Wishlist
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.Product(ctx, productID); err != nil {
			return err
		}
		var err error
		w, err = s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		items, err := tx.WishlistItems(ctx, w.ID)
		if err != nil {
			return err
		}
		if !hasProduct(items, productID) {
			item := &domain.WishlistItem{
				ID:         uuid.NewString(),
				WishlistID: w.ID,
				ProductID:  productID,
				CreatedAt:  s.now(),
			}
			if err := tx.InsertWishlistItem(ctx, item); err != nil {
				return err
			}
		}
		w.Items, err = tx.WishlistItems(ctx, w.ID)
		return err
	})
	return w, err
}

func (s *Service) RemoveItem(ctx context.Context, owner domain.CartOwner, productID string) (*domain.Wishlist, error) {
	var w *domain.Wishlist
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		w, err = s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		items, err := tx.WishlistItems(ctx, w.ID)
		if err != nil {
			return err
		}
		found := false
		for _, item := range items {
			if item.ProductID == productID {
				found = true
				if err := tx.DeleteWishlistItem(ctx, item.ID); err != nil {
					return err
				}
			}
		}
		if !found {
			return domain.NotFoundf("item not found in wishlist")
		}
		w.Items, err = tx.WishlistItems(ctx, w.ID)
		return err
	})
	return w, err
}

func (s *Service) Clear(ctx context.Context, owner domain.CartOwner) error {
	return s.db.InTx(ctx, func(tx storage.Tx) error {
		w, err := s.getOrCreate(ctx, tx, owner)
		if err != nil {
			return err
		}
		return tx.DeleteWishlistItems(ctx, w.ID)
	})
}

// Merge folds a guest wishlist into the user's on login, deduplicating by
// product. Idempotent for the same reason the cart merge is: the guest
// row is gone afterwards.
func (s *Service) Merge(ctx context.Context, userID, sessionID string) (*domain.Wishlist, error) {
	if userID == "" || sessionID == "" {
		return nil, domain.Invalidf("user id and session id are required")
	}
	var w *domain.Wishlist
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		guest, err := tx.WishlistByOwner(ctx, domain.GuestOwner(sessionID))
		if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
			return err
		}
		user, err := tx.WishlistByOwner(ctx, domain.UserOwner(userID))
		if err != nil && !domain.IsCode(err, domain.CodeNotFound) {
			return err
		}

		switch {
		case guest == nil && user == nil:
			w = &domain.Wishlist{ID: uuid.NewString(), UserID: &userID, SessionID: &sessionID, CreatedAt: s.now()}
			if err := tx.CreateWishlist(ctx, w); err != nil {
				return err
			}
		case user == nil:
			if err := tx.UpdateWishlistIdentity(ctx, guest.ID, &userID, &sessionID); err != nil {
				return err
			}
			w = guest
		case guest == nil || guest.ID == user.ID:
			if err := tx.UpdateWishlistIdentity(ctx, user.ID, &userID, &sessionID); err != nil {
				return err
			}
			w = user
		default:
			userItems, err := tx.WishlistItems(ctx, user.ID)
			if err != nil {
				return err
			}
			guestItems, err := tx.WishlistItems(ctx, guest.ID)
			if err != nil {
				return err
			}
			for _, item := range guestItems {
				if hasProduct(userItems, item.ProductID) {
					continue
				}
				moved := &domain.WishlistItem{
					ID:         uuid.NewString(),
					WishlistID: user.ID,
					ProductID:  item.ProductID,
					CreatedAt:  item.CreatedAt,
				}
				if err := tx.InsertWishlistItem(ctx, moved); err != nil {
					return err
				}
			}
			if err := tx.DeleteWishlist(ctx, guest.ID); err != nil {
				return err
			}
			if err := tx.UpdateWishlistIdentity(ctx, user.ID, &userID, &sessionID); err != nil {
				return err
			}
			w = user
		}

		w.UserID = &userID
		w.SessionID = &sessionID
		w.Items, err = tx.WishlistItems(ctx, w.ID)
		return err
	})
	return w, err
}

func (s *Service) getOrCreate(ctx context.Context, tx storage.Tx, owner domain.CartOwner) (*domain.Wishlist, error) {
	if owner.IsZero() {
		return nil, domain.Invalidf("user id or session id is required")
	}
	w, err := tx.WishlistByOwner(ctx, owner)
	if err == nil {
		return w, nil
	}
	if !domain.IsCode(err, domain.CodeNotFound) {
		return nil, err
	}
	w = &domain.Wishlist{ID: uuid.NewString(), CreatedAt: s.now()}
	if userID, ok := owner.UserID(); ok {
		w.UserID = &userID
	}
	if sessionID, ok := owner.SessionID(); ok {
		w.SessionID = &sessionID
	}
	if err := tx.CreateWishlist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func hasProduct(items []domain.WishlistItem, productID string) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

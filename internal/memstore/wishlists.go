package memstore

import (
	"context"
	"sort"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) WishlistByOwner(_ context.Context, owner domain.CartOwner) (*domain.Wishlist, error) {
	if userID, ok := owner.UserID(); ok {
		for _, w := range t.st.wishlists {
			if w.UserID != nil && *w.UserID == userID {
				return &w, nil
			}
		}
		return nil, domain.NotFoundf("wishlist not found")
	}
	if sessionID, ok := owner.SessionID(); ok {
		for _, w := range t.st.wishlists {
			if w.SessionID != nil && *w.SessionID == sessionID {
				return &w, nil
			}
		}
		return nil, domain.NotFoundf("wishlist not found")
	}
	return nil, domain.Invalidf("user id or session id is required")
}

func (t *Tx) CreateWishlist(_ context.Context, w *domain.Wishlist) error {
	t.st.wishlists[w.ID] = *w
	return nil
}

func (t *Tx) UpdateWishlistIdentity(_ context.Context, id string, userID, sessionID *string) error {
	w, ok := t.st.wishlists[id]
	if !ok {
		return domain.NotFoundf("wishlist not found")
	}
	w.UserID = userID
	w.SessionID = sessionID
	t.st.wishlists[id] = w
	return nil
}

func (t *Tx) DeleteWishlist(_ context.Context, id string) error {
	delete(t.st.wishlists, id)
	for itemID, item := range t.st.wishlistItems {
		if item.WishlistID == id {
			delete(t.st.wishlistItems, itemID)
		}
	}
	return nil
}

func (t *Tx) WishlistItems(_ context.Context, wishlistID string) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	for _, item := range t.st.wishlistItems {
		if item.WishlistID == wishlistID {
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

func (t *Tx) InsertWishlistItem(_ context.Context, item *domain.WishlistItem) error {
	for _, existing := range t.st.wishlistItems {
		if existing.WishlistID == item.WishlistID && existing.ProductID == item.ProductID {
			return nil
		}
	}
	t.st.wishlistItems[item.ID] = *item
	return nil
}

func (t *Tx) DeleteWishlistItem(_ context.Context, itemID string) error {
	delete(t.st.wishlistItems, itemID)
	return nil
}

func (t *Tx) DeleteWishlistItems(_ context.Context, wishlistID string) error {
	for itemID, item := range t.st.wishlistItems {
		if item.WishlistID == wishlistID {
			delete(t.st.wishlistItems, itemID)
		}
	}
	return nil
}

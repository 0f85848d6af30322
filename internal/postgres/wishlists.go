package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) scanWishlist(row interface{ Scan(...any) error }) (*domain.Wishlist, error) {
	var w domain.Wishlist
	err := row.Scan(&w.ID, &w.UserID, &w.SessionID, &w.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("wishlist not found")
		}
		return nil, err
	}
	return &w, nil
}

func (t *Tx) WishlistByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Wishlist, error) {
	if userID, ok := owner.UserID(); ok {
		return t.scanWishlist(t.tx.QueryRow(ctx, `SELECT id, user_id, session_id, created_at FROM wishlists WHERE user_id=$1`, userID))
	}
	if sessionID, ok := owner.SessionID(); ok {
		return t.scanWishlist(t.tx.QueryRow(ctx, `SELECT id, user_id, session_id, created_at FROM wishlists WHERE session_id=$1`, sessionID))
	}
	return nil, domain.Invalidf("user id or session id is required")
}

func (t *Tx) CreateWishlist(ctx context.Context, w *domain.Wishlist) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO wishlists(id, user_id, session_id, created_at) VALUES ($1, $2, $3, $4)`,
		w.ID, w.UserID, w.SessionID, w.CreatedAt)
	return err
}

func (t *Tx) UpdateWishlistIdentity(ctx context.Context, id string, userID, sessionID *string) error {
	ct, err := t.tx.Exec(ctx, `UPDATE wishlists SET user_id=$2, session_id=$3 WHERE id=$1`, id, userID, sessionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("wishlist not found")
	}
	return nil
}

func (t *Tx) DeleteWishlist(ctx context.Context, id string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM wishlists WHERE id=$1`, id)
	return err
}

func (t *Tx) WishlistItems(ctx context.Context, wishlistID string) ([]domain.WishlistItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, wishlist_id, product_id, created_at
		FROM wishlist_items WHERE wishlist_id=$1 ORDER BY created_at DESC`, wishlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WishlistItem
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.ID, &item.WishlistID, &item.ProductID, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (t *Tx) InsertWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO wishlist_items(id, wishlist_id, product_id, created_at)
		VALUES ($1, $2, $3, $4) ON CONFLICT (wishlist_id, product_id) DO NOTHING`,
		item.ID, item.WishlistID, item.ProductID, item.CreatedAt)
	return err
}

func (t *Tx) DeleteWishlistItem(ctx context.Context, itemID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM wishlist_items WHERE id=$1`, itemID)
	return err
}

func (t *Tx) DeleteWishlistItems(ctx context.Context, wishlistID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM wishlist_items WHERE wishlist_id=$1`, wishlistID)
	return err
}

// Package inventory is the stock ledger. Stock moves between "available"
// (the stock columns) and "reserved" (cart lines) only through ReserveTx
// and ReleaseTx, always inside the caller's transaction.
package inventory

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

// Ledger exposes reserve/release as standalone operations for callers
// that are not already inside a transaction.
type Ledger struct {
	db storage.DB
}

func NewLedger(db storage.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Reserve(ctx context.Context, productID string, variantID *string, quantity int) error {
	return l.db.InTx(ctx, func(tx storage.Tx) error {
		return ReserveTx(ctx, tx, productID, variantID, quantity)
	})
}

func (l *Ledger) Release(ctx context.Context, productID string, variantID *string, quantity int) error {
	return l.db.InTx(ctx, func(tx storage.Tx) error {
		return ReleaseTx(ctx, tx, productID, variantID, quantity)
	})
}

// ReserveTx decrements available stock for quantity units of a product,
// and of a specific variant when one is given. Product stock on a product
// with variants is the roll-up of variant stock, so both rows move
// together. Rows are locked product-first so concurrent reservations for
// the same product serialize instead of deadlocking.
func ReserveTx(ctx context.Context, tx storage.Tx, productID string, variantID *string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalidf("quantity must be positive")
	}

	p, err := tx.ProductForUpdate(ctx, productID)
	if err != nil {
		return err
	}

	var v *domain.Variant
	if variantID != nil {
		v, err = tx.VariantForUpdate(ctx, *variantID)
		if err != nil {
			return err
		}
		if v.ProductID != p.ID {
			return domain.Invalidf("variant %s does not belong to product %s", v.ID, p.ID)
		}
		if v.Stock < quantity {
			return domain.InsufficientStockf("insufficient stock for variant %s", v.SKU)
		}
	}
	if p.Stock < quantity {
		return domain.InsufficientStockf("insufficient stock for product %s", p.SKU)
	}

	if err := tx.AdjustProductStock(ctx, productID, -quantity); err != nil {
		return err
	}
	if variantID != nil {
		if err := tx.AdjustVariantStock(ctx, *variantID, -quantity); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseTx returns quantity units to available stock. Releasing against a
// product or variant that has since been deleted is a no-op: the
// reservation has nowhere to go back to and the caller's operation must
// still succeed.
func ReleaseTx(ctx context.Context, tx storage.Tx, productID string, variantID *string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalidf("quantity must be positive")
	}

	if err := tx.AdjustProductStock(ctx, productID, quantity); err != nil {
		if !domain.IsCode(err, domain.CodeNotFound) {
			return err
		}
	}
	if variantID != nil {
		if err := tx.AdjustVariantStock(ctx, *variantID, quantity); err != nil {
			if !domain.IsCode(err, domain.CodeNotFound) {
				return err
			}
		}
	}
	return nil
}

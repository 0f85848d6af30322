package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const productColumns = `id, name, sku, images, base_price, price, expires_at, stock, created_at, updated_at`

func (t *Tx) scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Images, &p.BasePrice, &p.Price, &p.ExpiresAt, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("product not found")
		}
		return nil, err
	}
	return &p, nil
}

func (t *Tx) Product(ctx context.Context, id string) (*domain.Product, error) {
	return t.scanProduct(t.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
}

func (t *Tx) ProductForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return t.scanProduct(t.tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1 FOR UPDATE`, id))
}

const variantColumns = `id, product_id, sku, base_price, price, expires_at, stock, options`

func (t *Tx) scanVariant(row interface{ Scan(...any) error }) (*domain.Variant, error) {
	var v domain.Variant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.BasePrice, &v.Price, &v.ExpiresAt, &v.Stock, &v.Options)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("variant not found")
		}
		return nil, err
	}
	return &v, nil
}

func (t *Tx) Variant(ctx context.Context, id string) (*domain.Variant, error) {
	return t.scanVariant(t.tx.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id=$1`, id))
}

func (t *Tx) VariantForUpdate(ctx context.Context, id string) (*domain.Variant, error) {
	return t.scanVariant(t.tx.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id=$1 FOR UPDATE`, id))
}

func (t *Tx) AdjustProductStock(ctx context.Context, id string, delta int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`, id, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("product not found")
	}
	return nil
}

func (t *Tx) AdjustVariantStock(ctx context.Context, id string, delta int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE product_variants SET stock = stock + $2 WHERE id=$1`, id, delta)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.NotFoundf("variant not found")
	}
	return nil
}

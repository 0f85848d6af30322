package memstore

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) Product(_ context.Context, id string) (*domain.Product, error) {
	p, ok := t.st.products[id]
	if !ok {
		return nil, domain.NotFoundf("product not found")
	}
	return &p, nil
}

func (t *Tx) ProductForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return t.Product(ctx, id)
}

func (t *Tx) Variant(_ context.Context, id string) (*domain.Variant, error) {
	v, ok := t.st.variants[id]
	if !ok {
		return nil, domain.NotFoundf("variant not found")
	}
	return &v, nil
}

func (t *Tx) VariantForUpdate(ctx context.Context, id string) (*domain.Variant, error) {
	return t.Variant(ctx, id)
}

func (t *Tx) AdjustProductStock(_ context.Context, id string, delta int) error {
	p, ok := t.st.products[id]
	if !ok {
		return domain.NotFoundf("product not found")
	}
	if p.Stock+delta < 0 {
		return domain.InsufficientStockf("insufficient stock for product %s", id)
	}
	p.Stock += delta
	t.st.products[id] = p
	return nil
}

func (t *Tx) AdjustVariantStock(_ context.Context, id string, delta int) error {
	v, ok := t.st.variants[id]
	if !ok {
		return domain.NotFoundf("variant not found")
	}
	if v.Stock+delta < 0 {
		return domain.InsufficientStockf("insufficient stock for variant %s", id)
	}
	v.Stock += delta
	t.st.variants[id] = v
	return nil
}

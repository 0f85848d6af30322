package cart

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

// Line is one cart item joined with its product and variant, with the
// unit price resolved at read time. UnitPrice is nil when neither the
// variant nor the product carries a usable price.
type Line struct {
	Item      domain.CartItem `json:"item"`
	Product   *domain.Product `json:"product"`
	Variant   *domain.Variant `json:"variant,omitempty"`
	UnitPrice *float64        `json:"unit_price,omitempty"`
	LineTotal float64         `json:"line_total"`
}

// View is the cart as returned to callers.
type View struct {
	Cart     domain.Cart `json:"cart"`
	Lines    []Line      `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

func (s *Service) buildView(ctx context.Context, tx storage.Tx, c *domain.Cart) (*View, error) {
	items, err := tx.CartItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := &View{Cart: *c, Lines: make([]Line, 0, len(items))}
	for _, item := range items {
		product, err := tx.Product(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		var variant *domain.Variant
		if item.VariantID != nil {
			variant, err = tx.Variant(ctx, *item.VariantID)
			if err != nil {
				return nil, err
			}
		}

		line := Line{Item: item, Product: product, Variant: variant}
		if price, ok := domain.EffectiveUnitPrice(product, variant, now); ok {
			price = domain.Round2(price)
			line.UnitPrice = &price
			line.LineTotal = domain.Round2(price * float64(item.Quantity))
			view.Subtotal += line.LineTotal
		}
		view.Lines = append(view.Lines, line)
	}
	view.Subtotal = domain.Round2(view.Subtotal)
	view.Cart.Items = items
	return view, nil
}

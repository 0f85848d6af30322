// Package checkout converts a cart into an immutable order. The whole
// conversion is one transaction: pricing, address, coupon, order rows and
// cart clearing either all happen or none do.
package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/bakervibes/vexa-backend/internal/address"
	"github.com/bakervibes/vexa-backend/internal/coupon"
	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

// ShippingOption is a shipping choice: a flat amount, or a percentage of
// the product subtotal when IsPercentage is set.
type ShippingOption struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Price        float64 `json:"price"`
	IsPercentage bool    `json:"is_percentage"`
}

// Cost computes the shipping cost against the pre-discount subtotal.
func (o ShippingOption) Cost(subtotal float64) float64 {
	if o.IsPercentage {
		return domain.Round2(subtotal * o.Price / 100)
	}
	return domain.Round2(o.Price)
}

// PaymentInput describes the payment backing the order. A transaction id
// means the payment was already confirmed externally and the payment row
// starts COMPLETED; otherwise it starts PENDING.
type PaymentInput struct {
	Provider      string `json:"provider"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type Input struct {
	Address        address.Input  `json:"address"`
	Payment        PaymentInput   `json:"payment"`
	CouponCode     *string        `json:"coupon,omitempty"`
	Shipping       ShippingOption `json:"shipping_option"`
	IdempotencyKey *string        `json:"-"`
}

type Service struct {
	db        storage.DB
	publisher orders.Publisher
	producer  string
	now       func() time.Time
}

// NewService builds the orchestrator. publisher may be nil when order
// events are not wired.
func NewService(db storage.DB, publisher orders.Publisher, producer string) *Service {
	return &Service{db: db, publisher: publisher, producer: producer, now: time.Now}
}

// CreateOrder turns the user's cart into a PENDING order. Cart rows are
// cleared without releasing stock: the reservation made at add-to-cart
// time is exactly the stock this order consumes. A repeated call with the
// same idempotency key returns the order created the first time.
func (s *Service) CreateOrder(ctx context.Context, userID string, in Input) (*domain.Order, error) {
	if in.Payment.Provider == "" {
		return nil, domain.Invalidf("payment provider is required")
	}
	if in.Shipping.Price < 0 {
		return nil, domain.Invalidf("shipping price cannot be negative")
	}

	var order *domain.Order
	err := s.db.InTx(ctx, func(tx storage.Tx) error {
		if in.IdempotencyKey != nil {
			existing, err := tx.OrderByIdempotencyKey(ctx, *in.IdempotencyKey)
			if err == nil {
				order = existing
				return nil
			}
			if !domain.IsCode(err, domain.CodeNotFound) {
				return err
			}
		}

		var err error
		order, err = s.createOrderTx(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	orders.PublishOrderCreated(s.publisher, s.producer, order)
	return order, nil
}

func (s *Service) createOrderTx(ctx context.Context, tx storage.Tx, userID string, in Input) (*domain.Order, error) {
	now := s.now()

	// 1. The user's cart, locked for the duration of checkout.
	c, err := tx.CartByOwner(ctx, domain.UserOwner(userID))
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil, domain.Invalidf("cart is empty")
		}
		return nil, err
	}
	if c, err = tx.CartForUpdate(ctx, c.ID); err != nil {
		return nil, err
	}
	items, err := tx.CartItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.Invalidf("cart is empty")
	}

	// 2. Address.
	addr, err := address.ResolveTx(ctx, tx, userID, in.Address, now)
	if err != nil {
		return nil, err
	}

	// 3. Snapshot each line at its effective price.
	var subtotal float64
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := tx.Product(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		var variant *domain.Variant
		if item.VariantID != nil {
			if variant, err = tx.Variant(ctx, *item.VariantID); err != nil {
				return nil, err
			}
		}
		price, ok := domain.EffectiveUnitPrice(product, variant, now)
		if !ok {
			return nil, domain.Invalidf("price not found for product %s", product.Name)
		}
		price = domain.Round2(price)
		subtotal += price * float64(item.Quantity)

		snapshot := domain.ItemSnapshot{
			Name:  product.Name,
			SKU:   product.SKU,
			Price: price,
		}
		if len(product.Images) > 0 {
			snapshot.Image = product.Images[0]
		}
		if variant != nil {
			snapshot.Variant = &domain.VariantSnapshot{SKU: variant.SKU, Options: variant.Options}
		}
		orderItems = append(orderItems, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     price,
			Snapshot:  snapshot,
		})
	}
	subtotal = domain.Round2(subtotal)

	// 4-5. Shipping against the pre-discount subtotal.
	shippingCost := in.Shipping.Cost(subtotal)

	// 6. Coupon, validated atomically with order creation.
	var discount float64
	var couponID *string
	if in.CouponCode != nil && *in.CouponCode != "" {
		cpn, err := coupon.ValidateTx(ctx, tx, *in.CouponCode, now)
		if err != nil {
			return nil, err
		}
		discount, _ = coupon.Discount(cpn, subtotal)
		couponID = &cpn.ID
	}

	// 7. Final total: discount never touches shipping.
	total := domain.Round2(subtotal + shippingCost - discount)

	// 8. Order, snapshot items, payment.
	order := &domain.Order{
		ID:             uuid.NewString(),
		OrderNumber:    newOrderNumber(now),
		UserID:         userID,
		AddressID:      addr.ID,
		CouponID:       couponID,
		IdempotencyKey: in.IdempotencyKey,
		Status:         domain.OrderPending,
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		DiscountAmount: discount,
		TotalAmount:    total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, err
	}
	for i := range orderItems {
		orderItems[i].OrderID = order.ID
		if err := tx.InsertOrderItem(ctx, &orderItems[i]); err != nil {
			return nil, err
		}
	}

	payment := &domain.Payment{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Provider:  in.Payment.Provider,
		Amount:    total,
		Status:    domain.PaymentPending,
		CreatedAt: now,
	}
	if in.Payment.TransactionID != "" {
		payment.Status = domain.PaymentCompleted
		payment.TransactionID = in.Payment.TransactionID
	}
	if err := tx.InsertPayment(ctx, payment); err != nil {
		return nil, err
	}

	// 9. Clear the cart without touching stock; the reservations made at
	// add-to-cart time now belong to the order.
	if err := tx.DeleteCartItems(ctx, c.ID); err != nil {
		return nil, err
	}

	order.Items = orderItems
	order.Payments = []domain.Payment{*payment}
	return order, nil
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), rand.Intn(1000))
}

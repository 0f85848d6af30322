// Package coupon validates discount codes and computes discounts.
// Discounts apply to the product subtotal only, never to shipping.
package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

type Evaluator struct {
	db  storage.DB
	now func() time.Time
}

func NewEvaluator(db storage.DB) *Evaluator {
	return &Evaluator{db: db, now: time.Now}
}

// Validate looks a coupon up by code and checks it is active, unexpired
// and under its usage limit. Usage is counted from orders referencing the
// coupon rather than a maintained counter.
func (e *Evaluator) Validate(ctx context.Context, code string) (*domain.Coupon, error) {
	var c *domain.Coupon
	err := e.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		c, err = ValidateTx(ctx, tx, code, e.now())
		return err
	})
	return c, err
}

// ValidateTx is Validate inside a caller-owned transaction, so checkout
// can make the usage-limit check atomic with order creation.
func ValidateTx(ctx context.Context, tx storage.Tx, code string, now time.Time) (*domain.Coupon, error) {
	c, err := tx.CouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domain.CouponInvalidf("this coupon is no longer active")
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return nil, domain.CouponInvalidf("this coupon has expired")
	}
	if c.UsageLimit != nil {
		used, err := tx.CouponUsage(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if used >= *c.UsageLimit {
			return nil, domain.CouponInvalidf("this coupon has reached its usage limit")
		}
	}
	return c, nil
}

// Discount computes the discount a coupon yields against a subtotal.
// PERCENTAGE uses subtotal*value/100, FIXED uses the value directly; the
// result is clamped to [0, subtotal] and rounded to 2 decimals.
func Discount(c *domain.Coupon, subtotal float64) (discountAmount, finalTotal float64) {
	switch c.Type {
	case domain.CouponPercentage:
		discountAmount = subtotal * c.Value / 100
	default:
		discountAmount = c.Value
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}
	if discountAmount < 0 {
		discountAmount = 0
	}
	discountAmount = domain.Round2(discountAmount)
	finalTotal = domain.Round2(subtotal - discountAmount)
	if finalTotal < 0 {
		finalTotal = 0
	}
	return discountAmount, finalTotal
}

// Applied is the preview returned when a coupon is applied to a cart
// total without being consumed.
type Applied struct {
	Coupon         domain.Coupon `json:"coupon"`
	OriginalTotal  float64       `json:"original_total"`
	DiscountAmount float64       `json:"discount_amount"`
	FinalTotal     float64       `json:"final_total"`
}

// Apply validates the code and computes the discount against cartTotal.
func (e *Evaluator) Apply(ctx context.Context, code string, cartTotal float64) (*Applied, error) {
	c, err := e.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	discount, final := Discount(c, cartTotal)
	return &Applied{
		Coupon:         *c,
		OriginalTotal:  cartTotal,
		DiscountAmount: discount,
		FinalTotal:     final,
	}, nil
}

// Active lists coupons that are active and not expired.
func (e *Evaluator) Active(ctx context.Context) ([]domain.Coupon, error) {
	var out []domain.Coupon
	err := e.db.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ActiveCoupons(ctx)
		return err
	})
	return out, err
}

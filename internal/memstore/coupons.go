package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func (t *Tx) CouponByCode(_ context.Context, code string) (*domain.Coupon, error) {
	for _, c := range t.st.coupons {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}
	return nil, domain.NotFoundf("coupon not found")
}

func (t *Tx) CouponUsage(_ context.Context, couponID string) (int, error) {
	n := 0
	for _, o := range t.st.orders {
		if o.CouponID != nil && *o.CouponID == couponID {
			n++
		}
	}
	return n, nil
}

func (t *Tx) ActiveCoupons(_ context.Context) ([]domain.Coupon, error) {
	now := time.Now()
	var out []domain.Coupon
	for _, c := range t.st.coupons {
		if !c.IsActive {
			continue
		}
		if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

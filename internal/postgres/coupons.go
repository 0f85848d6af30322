package postgres

import (
	"context"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

const couponColumns = `id, code, type, value, expires_at, usage_limit, is_active, created_at`

func (t *Tx) CouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := t.tx.QueryRow(ctx, `
		SELECT `+couponColumns+` FROM coupons WHERE upper(code)=upper($1)`, code).
		Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.ExpiresAt, &c.UsageLimit, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, domain.NotFoundf("coupon not found")
		}
		return nil, err
	}
	return &c, nil
}

// CouponUsage counts orders referencing the coupon. Cheap at this scale;
// a maintained counter would be the alternative if coupons get hot.
func (t *Tx) CouponUsage(ctx context.Context, couponID string) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE coupon_id=$1`, couponID).Scan(&n)
	return n, err
}

func (t *Tx) ActiveCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+couponColumns+` FROM coupons
		WHERE is_active AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.ExpiresAt, &c.UsageLimit, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

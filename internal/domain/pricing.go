package domain

import (
	"math"
	"time"
)

// Round2 rounds amounts to 2 decimal places. All money in the system is
// rounded with this before it is stored or compared.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// discountedOrBase picks the discounted price when it is set and not
// expired at now, else the base price.
func discountedOrBase(price, base *float64, expiresAt *time.Time, now time.Time) (float64, bool) {
	if price != nil && (expiresAt == nil || expiresAt.After(now)) {
		return *price, true
	}
	if base != nil {
		return *base, true
	}
	return 0, false
}

// EffectiveUnitPrice resolves the unit price of a cart line at read time:
// the variant's discounted price if set and unexpired, else the variant
// base price, else the product's discounted/base price. The second return
// is false when no price can be resolved.
func EffectiveUnitPrice(p *Product, v *Variant, now time.Time) (float64, bool) {
	if v != nil {
		if price, ok := discountedOrBase(v.Price, v.BasePrice, v.ExpiresAt, now); ok {
			return price, true
		}
	}
	if p != nil {
		return discountedOrBase(p.Price, p.BasePrice, p.ExpiresAt, now)
	}
	return 0, false
}

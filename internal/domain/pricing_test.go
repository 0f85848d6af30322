package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.05, Round2(10.045))
	assert.Equal(t, 10.04, Round2(10.044))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 19.99, Round2(19.99))
}

func TestEffectiveUnitPrice(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("variant discounted price wins", func(t *testing.T) {
		p := &Product{BasePrice: fp(100)}
		v := &Variant{BasePrice: fp(90), Price: fp(80), ExpiresAt: &future}
		price, ok := EffectiveUnitPrice(p, v, now)
		require.True(t, ok)
		assert.Equal(t, 80.0, price)
	})

	t.Run("expired variant discount falls back to variant base", func(t *testing.T) {
		p := &Product{BasePrice: fp(100)}
		v := &Variant{BasePrice: fp(90), Price: fp(80), ExpiresAt: &past}
		price, ok := EffectiveUnitPrice(p, v, now)
		require.True(t, ok)
		assert.Equal(t, 90.0, price)
	})

	t.Run("priceless variant falls back to product", func(t *testing.T) {
		p := &Product{BasePrice: fp(100)}
		v := &Variant{}
		price, ok := EffectiveUnitPrice(p, v, now)
		require.True(t, ok)
		assert.Equal(t, 100.0, price)
	})

	t.Run("product discounted price without expiry", func(t *testing.T) {
		p := &Product{BasePrice: fp(100), Price: fp(70)}
		price, ok := EffectiveUnitPrice(p, nil, now)
		require.True(t, ok)
		assert.Equal(t, 70.0, price)
	})

	t.Run("expired product discount uses base", func(t *testing.T) {
		p := &Product{BasePrice: fp(100), Price: fp(70), ExpiresAt: &past}
		price, ok := EffectiveUnitPrice(p, nil, now)
		require.True(t, ok)
		assert.Equal(t, 100.0, price)
	})

	t.Run("no price anywhere", func(t *testing.T) {
		_, ok := EffectiveUnitPrice(&Product{}, nil, now)
		assert.False(t, ok)
	})
}

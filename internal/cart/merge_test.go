package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
)

func TestMergeBothCarts(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	seedProduct(st, "p2", 50, 10)
	svc := NewService(st)
	ctx := context.Background()

	// guest: p1 x1, p2 x2; user: p1 x2
	_, err := svc.AddItem(ctx, domain.GuestOwner("s1"), "p1", nil, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, domain.GuestOwner("s1"), "p2", nil, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, domain.UserOwner("u1"), "p1", nil, 2)
	require.NoError(t, err)

	stockBefore := st.ProductStock("p1")

	view, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "u1", *view.Cart.UserID)

	quantities := map[string]int{}
	for _, line := range view.Lines {
		quantities[line.Item.ProductID] = line.Item.Quantity
	}
	assert.Equal(t, 3, quantities["p1"])
	assert.Equal(t, 2, quantities["p2"])

	// merge moves reservations, it does not re-reserve
	assert.Equal(t, stockBefore, st.ProductStock("p1"))
	// the guest cart row is gone
	assert.Equal(t, 1, st.CartCount())
}

func TestMergeGuestOnly(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	ctx := context.Background()

	guestView, err := svc.AddItem(ctx, domain.GuestOwner("s1"), "p1", nil, 2)
	require.NoError(t, err)

	view, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, guestView.Cart.ID, view.Cart.ID)
	assert.Equal(t, "u1", *view.Cart.UserID)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Item.Quantity)
}

func TestMergeUserOnly(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	ctx := context.Background()

	userView, err := svc.AddItem(ctx, domain.UserOwner("u1"), "p1", nil, 2)
	require.NoError(t, err)

	view, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, userView.Cart.ID, view.Cart.ID)
	require.Len(t, view.Lines, 1)
}

func TestMergeNeitherExists(t *testing.T) {
	st := memstore.New()
	svc := NewService(st)

	view, err := svc.Merge(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, "u1", *view.Cart.UserID)
	assert.Equal(t, "s1", *view.Cart.SessionID)
}

func TestMergeIdempotent(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, domain.GuestOwner("s1"), "p1", nil, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, domain.UserOwner("u1"), "p1", nil, 2)
	require.NoError(t, err)

	first, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	second, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)

	assert.Equal(t, first.Cart.ID, second.Cart.ID)
	require.Len(t, second.Lines, 1)
	assert.Equal(t, 3, second.Lines[0].Item.Quantity)
	assert.Equal(t, 1, st.CartCount())
}

func TestMergeValidation(t *testing.T) {
	svc := NewService(memstore.New())
	_, err := svc.Merge(context.Background(), "", "s1")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	_, err = svc.Merge(context.Background(), "u1", "")
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
}

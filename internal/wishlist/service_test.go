package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
)

func newStore() *memstore.Store {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "SKU-p1", Stock: 5})
	st.SeedProduct(domain.Product{ID: "p2", Name: "Gadget", SKU: "SKU-p2", Stock: 5})
	return st
}

func TestAddItemDeduplicates(t *testing.T) {
	svc := NewService(newStore())
	ctx := context.Background()
	owner := domain.GuestOwner("s1")

	w, err := svc.AddItem(ctx, owner, "p1")
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)

	w, err = svc.AddItem(ctx, owner, "p1")
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)

	_, err = svc.AddItem(ctx, owner, "missing")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestRemoveItem(t *testing.T) {
	svc := NewService(newStore())
	ctx := context.Background()
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(ctx, owner, "p1")
	require.NoError(t, err)

	w, err := svc.RemoveItem(ctx, owner, "p1")
	require.NoError(t, err)
	assert.Empty(t, w.Items)

	_, err = svc.RemoveItem(ctx, owner, "p1")
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestClear(t *testing.T) {
	svc := NewService(newStore())
	ctx := context.Background()
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(ctx, owner, "p1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, "p2")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, owner))

	w, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, w.Items)
}

func TestMergeDeduplicatesByProduct(t *testing.T) {
	svc := NewService(newStore())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, domain.GuestOwner("s1"), "p1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, domain.GuestOwner("s1"), "p2")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, domain.UserOwner("u1"), "p1")
	require.NoError(t, err)

	w, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Len(t, w.Items, 2)
	assert.Equal(t, "u1", *w.UserID)

	// idempotent: same result on repeat
	again, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
	assert.Len(t, again.Items, 2)
}

func TestMergeGuestOnly(t *testing.T) {
	svc := NewService(newStore())
	ctx := context.Background()

	guest, err := svc.AddItem(ctx, domain.GuestOwner("s1"), "p1")
	require.NoError(t, err)

	w, err := svc.Merge(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, w.ID)
	assert.Len(t, w.Items, 1)
}

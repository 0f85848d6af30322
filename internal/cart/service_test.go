package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
)

func fp(v float64) *float64 { return &v }
func sp(s string) *string   { return &s }

func seedProduct(st *memstore.Store, id string, price float64, stock int) {
	st.SeedProduct(domain.Product{ID: id, Name: "Product " + id, SKU: "SKU-" + id, BasePrice: fp(price), Stock: stock})
}

func TestGetCreatesEmptyCart(t *testing.T) {
	st := memstore.New()
	svc := NewService(st)

	view, err := svc.Get(context.Background(), domain.GuestOwner("s1"))
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 0.0, view.Subtotal)
	assert.Equal(t, "s1", *view.Cart.SessionID)

	// same owner resolves to the same cart
	again, err := svc.Get(context.Background(), domain.GuestOwner("s1"))
	require.NoError(t, err)
	assert.Equal(t, view.Cart.ID, again.Cart.ID)
	assert.Equal(t, 1, st.CartCount())
}

func TestAddItemReservesStock(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	view, err := svc.AddItem(context.Background(), owner, "p1", nil, 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Item.Quantity)
	assert.Equal(t, 100.0, *view.Lines[0].UnitPrice)
	assert.Equal(t, 200.0, view.Subtotal)
	assert.Equal(t, 8, st.ProductStock("p1"))
}

func TestAddItemMergesSameLine(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(context.Background(), owner, "p1", nil, 2)
	require.NoError(t, err)
	view, err := svc.AddItem(context.Background(), owner, "p1", nil, 3)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Item.Quantity)
	assert.Equal(t, 5, st.ProductStock("p1"))
}

func TestAddItemOversell(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 5)
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(context.Background(), owner, "p1", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, st.ProductStock("p1"))

	_, err = svc.AddItem(context.Background(), owner, "p1", nil, 1)
	assert.True(t, domain.IsCode(err, domain.CodeInsufficientStock))
	assert.Equal(t, 0, st.ProductStock("p1"))

	// the cart kept its original quantity
	view, err := svc.Get(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Item.Quantity)
}

func TestAddItemWithVariant(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	st.SeedVariant(domain.Variant{ID: "v1", ProductID: "p1", SKU: "SKU-p1-M", BasePrice: fp(110), Stock: 4})
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	view, err := svc.AddItem(context.Background(), owner, "p1", sp("v1"), 3)
	require.NoError(t, err)
	assert.Equal(t, 110.0, *view.Lines[0].UnitPrice)
	assert.Equal(t, 7, st.ProductStock("p1"))
	assert.Equal(t, 1, st.VariantStock("v1"))

	// variant stock, not product stock, is the binding constraint
	_, err = svc.AddItem(context.Background(), owner, "p1", sp("v1"), 2)
	assert.True(t, domain.IsCode(err, domain.CodeInsufficientStock))
	assert.Equal(t, 7, st.ProductStock("p1"))
	assert.Equal(t, 1, st.VariantStock("v1"))
}

func TestAddItemRejectsForeignVariant(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	seedProduct(st, "p2", 50, 10)
	st.SeedVariant(domain.Variant{ID: "v2", ProductID: "p2", SKU: "SKU-p2-M", Stock: 5})
	svc := NewService(st)

	_, err := svc.AddItem(context.Background(), domain.UserOwner("u1"), "p1", sp("v2"), 1)
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	assert.Equal(t, 10, st.ProductStock("p1"))
	assert.Equal(t, 5, st.VariantStock("v2"))
}

func TestAddItemValidation(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)

	_, err := svc.AddItem(context.Background(), domain.UserOwner("u1"), "p1", nil, 0)
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))

	_, err = svc.AddItem(context.Background(), domain.UserOwner("u1"), "missing", nil, 1)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	_, err = svc.AddItem(context.Background(), domain.CartOwner{}, "p1", nil, 1)
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))
}

func TestUpdateItemQuantityDelta(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(context.Background(), owner, "p1", nil, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, st.ProductStock("p1"))

	// raising reserves only the delta
	view, err := svc.UpdateItemQuantity(context.Background(), owner, "p1", nil, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Lines[0].Item.Quantity)
	assert.Equal(t, 3, st.ProductStock("p1"))

	// lowering releases only the delta
	view, err = svc.UpdateItemQuantity(context.Background(), owner, "p1", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Lines[0].Item.Quantity)
	assert.Equal(t, 8, st.ProductStock("p1"))

	// raising past available stock fails and changes nothing
	_, err = svc.UpdateItemQuantity(context.Background(), owner, "p1", nil, 11)
	assert.True(t, domain.IsCode(err, domain.CodeInsufficientStock))
	assert.Equal(t, 8, st.ProductStock("p1"))

	_, err = svc.UpdateItemQuantity(context.Background(), owner, "p1", nil, 0)
	assert.True(t, domain.IsCode(err, domain.CodeInvalid))

	_, err = svc.UpdateItemQuantity(context.Background(), owner, "p2", nil, 1)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestRemoveItemRestoresStock(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(context.Background(), owner, "p1", nil, 4)
	require.NoError(t, err)

	view, err := svc.RemoveItem(context.Background(), owner, "p1", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 10, st.ProductStock("p1"))

	_, err = svc.RemoveItem(context.Background(), owner, "p1", nil)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestClearRestoresAllStock(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "p1", 100, 10)
	seedProduct(st, "p2", 50, 6)
	st.SeedVariant(domain.Variant{ID: "v1", ProductID: "p1", SKU: "SKU-p1-M", Stock: 5})
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	_, err := svc.AddItem(context.Background(), owner, "p1", sp("v1"), 2)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), owner, "p2", nil, 3)
	require.NoError(t, err)

	view, err := svc.Clear(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, 10, st.ProductStock("p1"))
	assert.Equal(t, 6, st.ProductStock("p2"))
	assert.Equal(t, 5, st.VariantStock("v1"))
}

func TestViewSkipsPriceless(t *testing.T) {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "No price", SKU: "SKU-p1", Stock: 10})
	svc := NewService(st)
	owner := domain.UserOwner("u1")

	view, err := svc.AddItem(context.Background(), owner, "p1", nil, 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Nil(t, view.Lines[0].UnitPrice)
	assert.Equal(t, 0.0, view.Subtotal)
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakervibes/vexa-backend/internal/cart"
	"github.com/bakervibes/vexa-backend/internal/checkout"
	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/memstore"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/storage"
)

const testSecret = "test-secret"

func fp(v float64) *float64 { return &v }

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": sub, "exp": time.Now().Add(time.Hour).Unix()}
	if role != "" {
		claims["role"] = role
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newTestServer(st *memstore.Store) http.Handler {
	r := NewRouter()
	// no redis behind this address, so every cache lookup misses
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	ordersSvc := orders.NewService(st, nil, "test")
	r.Group(func(r chi.Router) {
		r.Use(Auth(testSecret))
		(&CartHandler{Carts: cart.NewService(st)}).Register(r)
		(&CheckoutHandler{Checkout: checkout.NewService(st, nil, "test"), Orders: ordersSvc, Redis: rdb}).Register(r)
		(&OrdersHandler{Orders: ordersSvc, Redis: rdb}).Register(r)
	})
	return r
}

func seedOrder(t *testing.T, st *memstore.Store, o domain.Order) {
	t.Helper()
	err := st.InTx(context.Background(), func(tx storage.Tx) error {
		return tx.InsertOrder(context.Background(), &o)
	})
	require.NoError(t, err)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domain.CodeNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.CodeInvalid))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.CodeCouponInvalid))
	assert.Equal(t, http.StatusConflict, statusFor(domain.CodeInsufficientStock))
	assert.Equal(t, http.StatusForbidden, statusFor(domain.CodeUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(memstore.New())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartGuestFlow(t *testing.T) {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "SKU-p1", BasePrice: fp(100), Stock: 5})
	srv := newTestServer(st)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	req.Header.Set(HeaderSessionID, "s1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view cart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 200.0, view.Subtotal)
	assert.Equal(t, 3, st.ProductStock("p1"))
}

func TestCartOversellConflict(t *testing.T) {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "SKU-p1", BasePrice: fp(100), Stock: 1})
	srv := newTestServer(st)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	req.Header.Set(HeaderSessionID, "s1")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.CodeInsufficientStock, body.Code)
}

func TestCartRequiresIdentity(t *testing.T) {
	srv := newTestServer(memstore.New())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderStatusOwnership(t *testing.T) {
	st := memstore.New()
	seedOrder(t, st, domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", Status: domain.OrderPending})
	srv := newTestServer(st)

	get := func(sub string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/orders/o1/status", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, sub, ""))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	rec := get("u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), string(domain.OrderPending))

	// another user never sees the status, warm cache or not
	rec = get("u2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCachedStatusOwnership(t *testing.T) {
	entry, err := json.Marshal(orders.StatusCache{Status: domain.OrderShipped, UpdatedAt: time.Now(), UserID: "u1"})
	require.NoError(t, err)

	body, err := cachedStatusFor(entry, "u1")
	require.NoError(t, err)
	assert.Contains(t, string(body), string(domain.OrderShipped))
	assert.NotContains(t, string(body), "user_id")

	_, err = cachedStatusFor(entry, "u2")
	assert.True(t, domain.IsCode(err, domain.CodeUnauthorized))

	// entries without an owner are not served from cache
	_, err = cachedStatusFor([]byte(`{"status":"SHIPPED"}`), "u1")
	require.Error(t, err)
	assert.False(t, domain.IsCode(err, domain.CodeUnauthorized))
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "SKU-p1", BasePrice: fp(100), Stock: 5})
	srv := newTestServer(st)
	token := signToken(t, "u1", "")

	addReq := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"product_id":"p1","quantity":2}`))
	addReq.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, addReq)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := `{"address":{"name":"Ada","email":"ada@example.com","phone":"555","street":"1 Main St","city":"Springfield","country":"US"},"payment":{"provider":"STRIPE"},"shipping_option":{"id":"flat","label":"Flat","price":10}}`
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(HeaderIdempotencyKey, "k1")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var created domain.Order
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))

	// same key resolves to the same order even with the cache cold
	second := post()
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	var replayed domain.Order
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &replayed))
	assert.Equal(t, created.ID, replayed.ID)
	assert.Equal(t, 3, st.ProductStock("p1"))
}

func TestAuthToken(t *testing.T) {
	st := memstore.New()
	st.SeedProduct(domain.Product{ID: "p1", Name: "Widget", SKU: "SKU-p1", BasePrice: fp(100), Stock: 5})
	srv := newTestServer(st)

	t.Run("valid token resolves the user cart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", ""))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var view cart.View
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.NotNil(t, view.Cart.UserID)
		assert.Equal(t, "u1", *view.Cart.UserID)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("other-secret"))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("merge requires authentication", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cart/merge", nil)
		req.Header.Set(HeaderSessionID, "s1")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

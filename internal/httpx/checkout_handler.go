package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bakervibes/vexa-backend/internal/checkout"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/redisx"
)

// HeaderIdempotencyKey lets clients retry checkout safely; repeats return
// the order created the first time.
const HeaderIdempotencyKey = "Idempotency-Key"

type CheckoutHandler struct {
	Checkout *checkout.Service
	Orders   *orders.Service
	Redis    *redis.Client
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.With(RequireUser).Post("/checkout", h.createOrder)
}

func (h *CheckoutHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in checkout.Input
	if !decode(w, r, &in) {
		return
	}
	ctx := r.Context()

	if key := r.Header.Get(HeaderIdempotencyKey); key != "" {
		in.IdempotencyKey = &key
		// warm keys resolve retries without touching the cart; a stale or
		// missing key falls through to the durable unique column
		idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, key)
		if id, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
			if order, err := h.Orders.Get(ctx, id, userID(r)); err == nil {
				writeJSON(w, http.StatusOK, order)
				return
			}
		}
	}

	order, err := h.Checkout.CreateOrder(ctx, userID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	if in.IdempotencyKey != nil {
		idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, *in.IdempotencyKey)
		_ = h.Redis.Set(ctx, idemKey, order.ID, redisx.TTLIdempotency).Err()
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
	body, _ := json.Marshal(orders.StatusCache{Status: order.Status, UpdatedAt: order.UpdatedAt, UserID: order.UserID})
	_ = h.Redis.Set(ctx, statusKey, body, redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusCreated, order)
}

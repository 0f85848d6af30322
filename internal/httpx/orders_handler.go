package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/bakervibes/vexa-backend/internal/domain"
	"github.com/bakervibes/vexa-backend/internal/orders"
	"github.com/bakervibes/vexa-backend/internal/redisx"
)

type OrdersHandler struct {
	Orders *orders.Service
	Redis  *redis.Client
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/orders", h.list)
		r.Get("/orders/{id}", h.get)
		r.Get("/orders/{id}/status", h.status)
		r.Get("/orders/number/{number}", h.getByNumber)
		r.Post("/orders/{id}/cancel", h.cancel)
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireUser, RequireAdmin)
		r.Get("/admin/orders", h.listAll)
		r.Patch("/admin/orders/{id}/status", h.updateStatus)
	})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Orders.ListUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) getByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.GetByNumber(r.Context(), chi.URLParam(r, "number"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// status serves the order status from cache when possible and falls back
// to the database, refilling the cache on the way out. Cached entries
// record the owner, so the ownership check holds on both paths.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx := r.Context()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		body, err := cachedStatusFor([]byte(s), userID(r))
		if err == nil {
			writeJSON(w, http.StatusOK, body)
			return
		}
		if domain.IsCode(err, domain.CodeUnauthorized) {
			writeError(w, err)
			return
		}
		// unreadable or ownerless entries fall through to the database
	}

	o, err := h.Orders.Get(ctx, orderID, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(r, o)
	writeJSON(w, http.StatusOK, statusBody(o.Status, o.UpdatedAt))
}

// cachedStatusFor checks the requester against the owner recorded in a
// cached entry and strips the owner from the client-facing body.
func cachedStatusFor(cached []byte, requester string) (json.RawMessage, error) {
	var entry orders.StatusCache
	if err := json.Unmarshal(cached, &entry); err != nil {
		return nil, err
	}
	if entry.UserID == "" {
		return nil, fmt.Errorf("cached entry has no owner")
	}
	if entry.UserID != requester {
		return nil, domain.Unauthorizedf("not authorized to view this order")
	}
	return statusBody(entry.Status, entry.UpdatedAt), nil
}

func statusBody(status domain.OrderStatus, updatedAt time.Time) json.RawMessage {
	body, _ := json.Marshal(map[string]any{"status": status, "updated_at": updatedAt})
	return body
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	o, err := h.Orders.Cancel(r.Context(), orderID, userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(r, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.Orders.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	o, err := h.Orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(r, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cacheStatus(r *http.Request, o *domain.Order) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(orders.StatusCache{Status: o.Status, UpdatedAt: o.UpdatedAt, UserID: o.UserID})
	_ = h.Redis.Set(r.Context(), key, body, redisx.TTLStatusCache).Err()
}

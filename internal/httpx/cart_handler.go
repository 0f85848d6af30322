package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakervibes/vexa-backend/internal/cart"
)

type CartHandler struct {
	Carts *cart.Service
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.get)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items", h.updateItem)
	r.Delete("/cart/items", h.removeItem)
	r.Delete("/cart", h.clear)
	r.With(RequireUser).Post("/cart/merge", h.merge)
}

type cartItemReq struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Carts.Get(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cartItemReq
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Carts.AddItem(r.Context(), owner, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cartItemReq
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Carts.UpdateItemQuantity(r.Context(), owner, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cartItemReq
	if !decode(w, r, &req) {
		return
	}
	view, err := h.Carts.RemoveItem(r.Context(), owner, req.ProductID, req.VariantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := h.Carts.Clear(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// merge folds the guest cart identified by the session header into the
// authenticated user's cart, typically right after login.
func (h *CartHandler) merge(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: HeaderSessionID + " header is required"})
		return
	}
	view, err := h.Carts.Merge(r.Context(), userID(r), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakervibes/vexa-backend/internal/wishlist"
)

type WishlistHandler struct {
	Wishlists *wishlist.Service
}

func (h *WishlistHandler) Register(r chi.Router) {
	r.Get("/wishlist", h.get)
	r.Post("/wishlist/items", h.addItem)
	r.Delete("/wishlist/items/{productID}", h.removeItem)
	r.Delete("/wishlist", h.clear)
	r.With(RequireUser).Post("/wishlist/merge", h.merge)
}

func (h *WishlistHandler) get(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	wl, err := h.Wishlists.Get(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WishlistHandler) addItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	wl, err := h.Wishlists.AddItem(r.Context(), owner, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WishlistHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	wl, err := h.Wishlists.RemoveItem(r.Context(), owner, chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

func (h *WishlistHandler) clear(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Wishlists.Clear(r.Context(), owner); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WishlistHandler) merge(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: HeaderSessionID + " header is required"})
		return
	}
	wl, err := h.Wishlists.Merge(r.Context(), userID(r), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakervibes/vexa-backend/internal/address"
	"github.com/bakervibes/vexa-backend/internal/domain"
)

type AddressHandler struct {
	Addresses *address.Service
}

func (h *AddressHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/addresses", h.list)
		r.Post("/addresses", h.create)
		r.Get("/addresses/{id}", h.get)
		r.Put("/addresses/{id}", h.update)
		r.Delete("/addresses/{id}", h.delete)
		r.Post("/addresses/{id}/default", h.setDefault)
	})
}

type addressReq struct {
	domain.AddressFields
	IsDefault *bool `json:"is_default,omitempty"`
}

func (h *AddressHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.Addresses.List(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AddressHandler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.Addresses.Get(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) create(w http.ResponseWriter, r *http.Request) {
	var req addressReq
	if !decode(w, r, &req) {
		return
	}
	isDefault := req.IsDefault != nil && *req.IsDefault
	a, err := h.Addresses.Create(r.Context(), userID(r), req.AddressFields, isDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) update(w http.ResponseWriter, r *http.Request) {
	var req addressReq
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Addresses.Update(r.Context(), chi.URLParam(r, "id"), userID(r), req.AddressFields, req.IsDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Addresses.Delete(r.Context(), chi.URLParam(r, "id"), userID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) setDefault(w http.ResponseWriter, r *http.Request) {
	a, err := h.Addresses.SetDefault(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

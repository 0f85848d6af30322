package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakervibes/vexa-backend/internal/payment"
)

type PaymentHandler struct {
	Payments *payment.Service
}

func (h *PaymentHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/orders/{id}/payment-intent", h.createIntent)
		r.Get("/orders/{id}/payments", h.status)
	})
	// provider webhook, authenticated by the provider's signature upstream
	r.Post("/webhooks/payment", h.webhook)
}

func (h *PaymentHandler) createIntent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Payments.CreateIntent(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) status(w http.ResponseWriter, r *http.Request) {
	out, err := h.Payments.Status(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PaymentHandler) webhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.TransactionID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "transaction_id is required"})
		return
	}
	p, err := h.Payments.Confirm(r.Context(), req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bakervibes/vexa-backend/internal/coupon"
)

type CouponHandler struct {
	Coupons *coupon.Evaluator
}

func (h *CouponHandler) Register(r chi.Router) {
	r.Get("/coupons", h.active)
	r.Post("/coupons/validate", h.validate)
	r.Post("/coupons/apply", h.apply)
}

func (h *CouponHandler) active(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Coupons.Active(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *CouponHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Coupons.Validate(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// apply previews the discount against a cart total without consuming the
// coupon.
func (h *CouponHandler) apply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string  `json:"code"`
		CartTotal float64 `json:"cart_total"`
	}
	if !decode(w, r, &req) {
		return
	}
	applied, err := h.Coupons.Apply(r.Context(), req.Code, req.CartTotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applied)
}

package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func statusFor(code string) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalid, domain.CodeCouponInvalid:
		return http.StatusBadRequest
	case domain.CodeInsufficientStock:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: domain.ErrorMessage(err), Code: code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid json"})
		return false
	}
	return true
}

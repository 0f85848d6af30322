package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bakervibes/vexa-backend/internal/domain"
)

type ctxKey string

const (
	userIDKey ctxKey = "user_id"
	roleKey   ctxKey = "role"
)

// HeaderSessionID carries the anonymous session id for guest carts and
// wishlists.
const HeaderSessionID = "X-Session-Id"

// Auth decodes a bearer token when one is present and stores the user id
// and role in the request context. Requests without a token pass through
// as guests; RequireUser and RequireAdmin enforce authentication where it
// is mandatory.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
				return
			}
			ctx := r.Context()
			if sub, _ := claims["sub"].(string); sub != "" {
				ctx = context.WithValue(ctx, userIDKey, sub)
			}
			if role, _ := claims["role"].(string); role != "" {
				ctx = context.WithValue(ctx, roleKey, role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func role(r *http.Request) string {
	v, _ := r.Context().Value(roleKey).(string)
	return v
}

// ownerFrom resolves the cart/wishlist owner: the authenticated user when
// there is one, the session header otherwise.
func ownerFrom(r *http.Request) (domain.CartOwner, error) {
	if id := userID(r); id != "" {
		return domain.UserOwner(id), nil
	}
	if sid := r.Header.Get(HeaderSessionID); sid != "" {
		return domain.GuestOwner(sid), nil
	}
	return domain.CartOwner{}, domain.Invalidf("authentication or %s header is required", HeaderSessionID)
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role(r) != "ADMIN" {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

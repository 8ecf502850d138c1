package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ikart/storefront/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// ownerIDKey is the context key for the storefront owner id.
const ownerIDKey contextKey = "owner_id"

// OwnerIDFromHeader is middleware that reads the X-User-ID header and stores
// it in the request context as the owner id scoping carts and wishlists. If
// the header is absent the request is rejected with 401 Unauthorized.
func OwnerIDFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get("X-User-ID")
		if uid == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "X-User-ID header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), ownerIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerIDFromContext extracts the owner id from the request context.
func ownerIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ownerIDKey).(string)
	return uid, ok && uid != ""
}

// sessionIDFromRequest reads the X-Session-ID header.
func sessionIDFromRequest(r *http.Request) string {
	return r.Header.Get("X-Session-ID")
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

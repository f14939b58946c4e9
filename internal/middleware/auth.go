// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// Authentication itself lives upstream (session gateway / reverse proxy);
// this service trusts the identity headers that layer injects.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id stored by RequireUser.
func UserID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}

// RequireUser rejects requests without a valid user id header.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.Header.Get(HeaderUserID))
		if err != nil || id < 1 {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally demands the admin role header.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderUserRole) != "admin" {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

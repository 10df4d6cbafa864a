package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// UserIDKey is the context key for the authenticated user ID
const UserIDKey ContextKey = "user_id"

// Identity extracts the caller identity set by the upstream auth gateway.
// The gateway authenticates requests and forwards the resolved user as
// X-User-ID; this service trusts the header as-is.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userIDStr := r.Header.Get("X-User-ID"); userIDStr != "" {
			if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil && userID > 0 {
				ctx := context.WithValue(r.Context(), UserIDKey, userID)
				r = r.WithContext(ctx)
			}
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskpilot/taskpilot/internal/auth"
	"github.com/taskpilot/taskpilot/internal/httputil"
)

// ContextKey is a type for context keys
type ContextKey string

// ClaimsKey is the context key under which verified identity claims are stored
const ClaimsKey ContextKey = "claims"

// JWT creates a chi middleware that validates bearer tokens and stores the
// verified claims in the request context. A missing, malformed, expired, or
// badly signed token yields a generic 401; the failure reason is logged only.
func JWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Unauthorized(w, "")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.Unauthorized(w, "")
				return
			}

			claims, err := auth.VerifyToken(secret, parts[1])
			if err != nil {
				httputil.Unauthorized(w, "")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims set by the JWT middleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}

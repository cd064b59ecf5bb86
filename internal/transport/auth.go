package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/calmmind/internal/mcp"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AuthMiddleware enforces bearer token authentication and stores the
// resolved caller in the request context.
func AuthMiddleware(resolver mcp.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := mcp.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil || caller.TenantID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(mcp.WithCaller(r.Context(), caller)))
		})
	}
}

// DefaultCaller attaches a fixed caller to every request. It stands in for
// AuthMiddleware when auth is disabled.
func DefaultCaller(caller mcp.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mcp.WithCaller(r.Context(), caller)))
		})
	}
}

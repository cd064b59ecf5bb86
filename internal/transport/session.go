package transport

import (
	"net/http"

	"github.com/rpggio/calmmind/internal/mcp"
)

// SessionMiddleware copies Mcp-Session-Id onto the caller in context.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		caller, _ := mcp.CallerFromContext(r.Context())
		caller.SessionID = sessionID
		next.ServeHTTP(w, r.WithContext(mcp.WithCaller(r.Context(), caller)))
	})
}

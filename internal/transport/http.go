package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/calmmind/internal/mcp"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, caller mcp.Caller, method string, params json.RawMessage) (any, error)
}

// Options configures the HTTP router.
type Options struct {
	// Auth guards /rpc. Nil leaves it open and every call acts as the
	// default tenant.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set. It authenticates on its own.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{handler: handler, logger: logger}

	r := chi.NewRouter()
	r.Use(srv.logRequests)
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		} else {
			r.Use(DefaultCaller(mcp.Caller{TenantID: mcp.DefaultTenant, Admin: true}))
		}
		r.Use(SessionMiddleware)
		r.Post("/rpc", srv.handleRPC)
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrorFor(err))
		return
	}

	caller, ok := mcp.CallerFromContext(r.Context())
	if !ok || caller.TenantID == "" {
		http.Error(w, "missing tenant", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), caller, req.Method, req.Params)
	if err != nil {
		rpcErr := ErrorFor(err)
		if rpcErr.Code == ErrInternal {
			s.logger.Error("rpc failed", "method", req.Method, "user_id", caller.TenantID, "error", err)
		}
		if req.IsNotification() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteError(w, req.ID, rpcErr)
		return
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteResult(w, req.ID, result)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}

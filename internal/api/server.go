// ABOUTME: API server wiring: route registration and middleware chains
// ABOUTME: Composes the setup gate, bearer auth, role checks, and the public-key gate

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/secrets"
	"github.com/cortexui/cortex-api/internal/setupgate"
	"github.com/cortexui/cortex-api/internal/store"
)

// TokenExchanger trades an OAuth authorization code for an access token.
// The concrete exchanger talks to the mail provider; tests inject fakes.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// ServerStore combines the store slices the API surface needs.
type ServerStore interface {
	store.UserStore
	store.PublicKeyStore
	store.LoginStore
	store.SettingsStore
	store.ConfigStore
	Ping() error
}

// Server handles the HTTP API surface.
type Server struct {
	store          ServerStore
	secrets        *secrets.Manager
	tokens         *auth.TokenService
	resolver       *auth.Resolver
	recorder       *auth.LoginRecorder
	exchanger      TokenExchanger
	trustedOrigins map[string]bool
	logger         *slog.Logger
}

// New creates an API server over the given collaborators. trustedOrigins
// restricts which browser origins receive CORS headers; an empty list
// admits every origin.
func New(st ServerStore, sec *secrets.Manager, tokens *auth.TokenService, exchanger TokenExchanger, trustedOrigins ...string) *Server {
	origins := make(map[string]bool, len(trustedOrigins))
	for _, o := range trustedOrigins {
		origins[o] = true
	}
	return &Server{
		store:          st,
		secrets:        sec,
		tokens:         tokens,
		resolver:       auth.NewResolver(tokens, st),
		recorder:       auth.NewLoginRecorder(st),
		exchanger:      exchanger,
		trustedOrigins: origins,
		logger:         slog.Default().With("component", "api"),
	}
}

// Handler returns the complete API handler: CORS handling inside the
// bootstrap gate, which wraps every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return setupgate.Middleware(s.store)(s.corsMiddleware(mux))
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	authed := auth.Middleware(s.resolver)
	admin := auth.RequireRole(auth.RoleAdmin)
	editor := auth.RequireRole(auth.RoleEditor)
	viewer := auth.RequireRole(auth.RoleViewer)
	keyGate := auth.PublicKeyGate(s.store)

	// Authentication
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/sign-up", s.handleSignUp)
	mux.Handle("GET /api/v1/auth/me", chain(http.HandlerFunc(s.handleMe), authed))

	// User management (admin only)
	mux.Handle("GET /api/v1/users", chain(http.HandlerFunc(s.handleUsersList), authed, admin))
	mux.Handle("POST /api/v1/users", chain(http.HandlerFunc(s.handleUserCreate), authed, admin))
	mux.Handle("PUT /api/v1/users/{uid}", chain(http.HandlerFunc(s.handleUserUpdate), authed, admin))
	mux.Handle("DELETE /api/v1/users/{uid}", chain(http.HandlerFunc(s.handleUserDelete), authed, admin))

	// First-run setup
	mux.HandleFunc("GET /api/v1/setup/status", s.handleSetupStatus)
	mux.HandleFunc("POST /api/v1/setup/complete", s.handleSetupComplete)

	// System
	mux.HandleFunc("GET /api/v1/system/ping", s.handlePing)
	mux.HandleFunc("POST /api/v1/system/token", s.handleSystemToken)
	mux.Handle("GET /api/v1/system/public-keys", chain(http.HandlerFunc(s.handleKeysList), authed, admin))
	mux.Handle("POST /api/v1/system/public-keys", chain(http.HandlerFunc(s.handleKeyCreate), authed, admin))
	mux.Handle("PUT /api/v1/system/public-keys/{uid}", chain(http.HandlerFunc(s.handleKeyUpdate), authed, admin))
	mux.Handle("DELETE /api/v1/system/public-keys/{uid}", chain(http.HandlerFunc(s.handleKeyDelete), authed, admin))

	// Settings
	mux.Handle("GET /api/v1/settings/whitelabel", chain(http.HandlerFunc(s.handleWhiteLabelGet), authed, viewer))
	mux.Handle("PUT /api/v1/settings/whitelabel", chain(http.HandlerFunc(s.handleWhiteLabelPut), authed, editor))

	// Machine callers
	mux.Handle("GET /api/v1/public/whitelabel", chain(http.HandlerFunc(s.handlePublicWhiteLabel), keyGate))

	// Documentation
	mux.HandleFunc("GET /docs", s.handleDocs)
}

// chain applies middlewares to a handler, first middleware outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

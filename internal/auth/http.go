// ABOUTME: HTTP middleware for bearer-token authentication on API endpoints
// ABOUTME: Extracts the JWT from the Authorization header and adds the user to context

package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// writeAuthError writes an auth failure in the standard response envelope.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	code := "UNAUTHORIZED"
	if errors.Is(err, ErrForbidden) {
		status = http.StatusForbidden
		code = "FORBIDDEN"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"isOk":    false,
		"status":  code,
		"message": err.Error(),
	})
}

// Middleware creates an HTTP middleware that resolves the bearer token to
// an active user and adds it to the request context. Requests without a
// usable token are refused with 401.
func Middleware(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				writeAuthError(w, Unauthorized(MsgTokenInvalid))
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				var authErr *Error
				if errors.As(err, &authErr) {
					writeAuthError(w, authErr)
					return
				}
				http.Error(w, `{"isOk":false,"status":"INTERNAL_ERROR","message":"internal error"}`, http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// ClientIP returns the request's source address, preferring the first
// entry of X-Forwarded-For over the transport peer.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

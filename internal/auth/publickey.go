// ABOUTME: Public-key gate middleware for machine callers
// ABOUTME: Validates the X-Public-Key header against stored keys, expiry, and IP allow-lists

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cortexui/cortex-api/internal/store"
)

// PublicKeyHeader carries the opaque machine key on public machine endpoints.
const PublicKeyHeader = "X-Public-Key"

// KeySource is the slice of the public key store the gate needs.
type KeySource interface {
	GetPublicKeyByValue(ctx context.Context, value string) (*store.PublicKey, error)
	TouchPublicKey(ctx context.Context, uid string) error
}

// PublicKeyGate creates middleware that admits machine callers presenting a
// valid key. The key must exist, be active, be unexpired, and the caller's
// IP must appear in the key's allow-list when one is set. Last-use tracking
// is best effort and never blocks the request.
func PublicKeyGate(keys KeySource) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "publickey-gate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := r.Header.Get(PublicKeyHeader)
			if value == "" {
				writeAuthError(w, Unauthorized("Public key is missing."))
				return
			}

			key, err := keys.GetPublicKeyByValue(r.Context(), value)
			if errors.Is(err, store.ErrNotFound) {
				writeAuthError(w, Unauthorized("Public key is invalid or inactive."))
				return
			}
			if err != nil {
				logger.Error("public key lookup failed", "error", err)
				http.Error(w, `{"isOk":false,"status":"INTERNAL_ERROR","message":"internal error"}`, http.StatusInternalServerError)
				return
			}

			if !key.IsActive {
				writeAuthError(w, Unauthorized("Public key is invalid or inactive."))
				return
			}

			if key.ExpiresAt != nil && !key.ExpiresAt.After(time.Now()) {
				writeAuthError(w, Unauthorized("Public key is expired."))
				return
			}

			if len(key.AllowedIPs) > 0 {
				ip := ClientIP(r)
				if !slices.Contains(key.AllowedIPs, ip) {
					writeAuthError(w, Unauthorized("IP address is not allowed for this key."))
					return
				}
			}

			if err := keys.TouchPublicKey(r.Context(), key.UID); err != nil {
				logger.Warn("failed to record key use", "uid", key.UID, "error", err)
			}

			next.ServeHTTP(w, r)
		})
	}
}

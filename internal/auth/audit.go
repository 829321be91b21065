// ABOUTME: Login attempt recorder feeding the append-only audit trail
// ABOUTME: Captures source IP, user agent, and outcome; failures never abort the login

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cortexui/cortex-api/internal/store"
)

// LoginSink is the slice of the login store the recorder needs.
type LoginSink interface {
	SaveLoginAttempt(ctx context.Context, attempt *store.LoginAttempt) error
}

// LoginRecorder appends one audit record per authentication attempt.
type LoginRecorder struct {
	logins LoginSink
	logger *slog.Logger
}

// NewLoginRecorder creates a recorder over the given login store.
func NewLoginRecorder(logins LoginSink) *LoginRecorder {
	return &LoginRecorder{
		logins: logins,
		logger: slog.Default().With("component", "login-recorder"),
	}
}

// Record appends an audit record for the attempt. identifier is the
// account UID when the email matched an account, otherwise the submitted
// email. A store failure is logged and swallowed; the login response never
// depends on the audit write.
func (lr *LoginRecorder) Record(ctx context.Context, r *http.Request, identifier string, success bool) {
	userAgent := r.Header.Get("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	attempt := &store.LoginAttempt{
		ID:         id.String(),
		Identifier: identifier,
		IPAddress:  ClientIP(r),
		UserAgent:  userAgent,
		Success:    success,
		CreatedAt:  time.Now().UTC(),
	}

	if err := lr.logins.SaveLoginAttempt(ctx, attempt); err != nil {
		lr.logger.Warn("failed to record login attempt", "identifier", identifier, "error", err)
	}
}

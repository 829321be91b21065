// ABOUTME: Response envelope helpers and the error-to-status mapping
// ABOUTME: Every handler answer is {isOk, status, message} plus payload fields

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/secrets"
	"github.com/cortexui/cortex-api/internal/store"
)

// writeJSON serializes payload with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeOK writes a success envelope. extra fields are merged into the
// envelope beside isOk/status/message.
func writeOK(w http.ResponseWriter, message string, extra map[string]any) {
	payload := map[string]any{
		"isOk":    true,
		"status":  "OK",
		"message": message,
	}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, http.StatusOK, payload)
}

// writeFail writes a failure envelope with the given HTTP status and
// SCREAMING_SNAKE status code.
func writeFail(w http.ResponseWriter, httpStatus int, status, message string) {
	writeJSON(w, httpStatus, map[string]any{
		"isOk":    false,
		"status":  status,
		"message": message,
	})
}

// writeError maps a domain error to its envelope. Unrecognized errors are
// logged and answered as opaque internal errors.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, auth.ErrForbidden):
		writeFail(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeFail(w, http.StatusNotFound, "NOT_FOUND", "Resource not found.")
	case errors.Is(err, store.ErrEmailExists):
		writeFail(w, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists.")
	case errors.Is(err, store.ErrSetupAlreadyCompleted):
		writeFail(w, http.StatusConflict, "ALREADY_SETUP", "Setup has already been completed.")
	case errors.Is(err, store.ErrKeyActive):
		writeFail(w, http.StatusConflict, "KEY_ACTIVE", "Public key must be deactivated before deletion.")
	case errors.Is(err, secrets.ErrCrypto):
		slog.Default().Error("crypto failure", "error", err)
		writeFail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error.")
	default:
		slog.Default().Error("unhandled error", "error", err)
		writeFail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error.")
	}
}

// decodeBody parses a JSON request body into dst. A false return means the
// 400 response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Request body is not valid JSON.")
		return false
	}
	return true
}

// ABOUTME: Bootstrap gate refusing API traffic until first-run setup completes
// ABOUTME: Allow-lists the endpoints needed to perform setup itself

package setupgate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// SetupChecker is the slice of the settings store the gate needs.
type SetupChecker interface {
	IsSetupCompleted(ctx context.Context) (bool, error)
}

// allowed maps method+path pairs that stay reachable before setup.
// OPTIONS is admitted on the POST endpoints so browser preflights succeed.
var allowed = map[string]map[string]bool{
	"/api/v1/system/ping":    {http.MethodGet: true},
	"/api/v1/setup/status":   {http.MethodGet: true},
	"/api/v1/setup/complete": {http.MethodPost: true, http.MethodOptions: true},
	"/api/v1/system/token":   {http.MethodPost: true, http.MethodOptions: true},
	"/docs":                  {http.MethodGet: true},
}

// Middleware creates the bootstrap gate. While setup is incomplete every
// request outside the allow-list is refused with 403 SETUP_REQUIRED; once
// the flag flips the gate passes everything through.
func Middleware(settings SetupChecker) func(http.Handler) http.Handler {
	logger := slog.Default().With("component", "setup-gate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if methods, ok := allowed[r.URL.Path]; ok && methods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			done, err := settings.IsSetupCompleted(r.Context())
			if err != nil {
				logger.Error("setup flag lookup failed", "error", err)
				http.Error(w, `{"isOk":false,"status":"INTERNAL_ERROR","message":"internal error"}`, http.StatusInternalServerError)
				return
			}

			if !done {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"isOk":         false,
					"status":       "SETUP_REQUIRED",
					"message":      "Setup has not been completed yet.",
					"requestedUrl": r.URL.Path,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

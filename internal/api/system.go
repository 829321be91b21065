// ABOUTME: System handlers: database liveness ping and machine token exchange
// ABOUTME: Exchanged tokens are encrypted before they reach the store

package api

import (
	"net/http"
	"time"

	"github.com/cortexui/cortex-api/internal/store"
)

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.store.Ping(); err != nil {
		s.logger.Error("database ping failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "DATABASE_DOWN", "Database is not reachable.")
		return
	}

	writeOK(w, "pong", map[string]any{
		"latencyMs": time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleSystemToken(w http.ResponseWriter, r *http.Request) {
	if s.exchanger == nil {
		writeFail(w, http.StatusServiceUnavailable, "EXCHANGE_UNAVAILABLE", "Token exchange is not configured.")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Authorization code is required.")
		return
	}

	token, err := s.exchanger.Exchange(r.Context(), req.Code)
	if err != nil {
		s.logger.Error("token exchange failed", "error", err)
		writeFail(w, http.StatusBadGateway, "EXCHANGE_FAILED", "Token exchange failed.")
		return
	}

	encrypted, err := s.secrets.Encrypt(token)
	if err != nil {
		writeError(w, err)
		return
	}

	record := store.MailToken{
		Token:     encrypted,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.SetConfigRecord(r.Context(), store.ConfigMailToken, record); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("mail token exchanged and stored")
	writeOK(w, "Token exchanged and stored.", nil)
}

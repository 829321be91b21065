// ABOUTME: Login, current-user, and self-signup handlers
// ABOUTME: Login collapses every failure into one message and audits each attempt

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/store"
)

// MsgLoginFailed is the single message for every login failure. Unknown
// email, deactivated account, and wrong password are indistinguishable to
// the caller.
const MsgLoginFailed = "User not found, inactive or incorrect password"

// userJSON renders a user for responses. The password hash never leaves
// the server.
func userJSON(u *store.User) map[string]any {
	var lastSeen any
	if u.LastSeen != nil {
		lastSeen = u.LastSeen.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"uid":       u.UID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
		"isActive":  u.IsActive,
		"lastSeen":  lastSeen,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password are required.")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		auth.VerifyDummy(req.Password)
		s.recorder.Record(r.Context(), r, req.Email, false)
		writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED", MsgLoginFailed)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.recorder.Record(r.Context(), r, user.UID, false)
		writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED", MsgLoginFailed)
		return
	}

	token, err := s.tokens.Issue(user.UID, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.TouchUserLastSeen(r.Context(), user.UID); err != nil {
		s.logger.Warn("failed to refresh last_seen", "uid", user.UID, "error", err)
	}
	s.recorder.Record(r.Context(), r, user.UID, true)

	s.logger.Info("user logged in", "uid", user.UID)
	writeOK(w, "Login successful.", map[string]any{
		"user":        userJSON(user),
		"accessToken": token,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := auth.MustFromContext(r.Context())
	writeOK(w, "User retrieved.", map[string]any{
		"user": userJSON(user),
	})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.store.GetSetting(r.Context(), store.SettingSelfSignup)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, err)
		return
	}
	if enabled != "true" {
		writeFail(w, http.StatusForbidden, "SIGNUP_DISABLED", "Self sign-up is disabled.")
		return
	}

	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password are required.")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now().UTC()
	user := &store.User{
		UID:          newUID(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         auth.RoleViewer.String(),
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("self sign-up", "uid", user.UID)
	writeOK(w, "Account created. An administrator must activate it before login.", map[string]any{
		"user": userJSON(user),
	})
}

// ABOUTME: Admin user-management handlers
// ABOUTME: List, create, explicit-field update, and hard delete

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/store"
)

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	rendered := make([]map[string]any, 0, len(users))
	for _, u := range users {
		rendered = append(rendered, userJSON(u))
	}
	writeOK(w, "Users retrieved.", map[string]any{"users": rendered})
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Role      string `json:"role"`
		IsActive  *bool  `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password are required.")
		return
	}
	if _, ok := auth.ParseRole(req.Role); !ok {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Role must be one of viewer, writer, editor, admin.")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	user := &store.User{
		UID:          newUID(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "User created.", map[string]any{"user": userJSON(user)})
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	var req struct {
		Email     *string `json:"email"`
		Password  *string `json:"password"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Role      *string `json:"role"`
		IsActive  *bool   `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	update := store.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email == "" {
			writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email must not be empty.")
			return
		}
		update.Email = &email
	}
	if req.Role != nil {
		if _, ok := auth.ParseRole(*req.Role); !ok {
			writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Role must be one of viewer, writer, editor, admin.")
			return
		}
		update.Role = req.Role
	}
	if req.Password != nil {
		if *req.Password == "" {
			writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Password must not be empty.")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		update.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(r.Context(), uid, update)
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "User updated.", map[string]any{"user": userJSON(user)})
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	actor := auth.MustFromContext(r.Context())
	if actor.UID == uid {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "You cannot delete your own account.")
		return
	}

	if err := s.store.DeleteUser(r.Context(), uid); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "User deleted.", nil)
}

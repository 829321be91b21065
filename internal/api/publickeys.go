// ABOUTME: Admin CRUD handlers for machine API keys
// ABOUTME: The raw key value is generated server-side and returned exactly once

package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/store"
)

// keyPrefix marks every generated machine key.
const keyPrefix = "cortex_"

// generateKeyValue creates an opaque machine key from 32 random bytes.
func generateKeyValue() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating key material: %w", err)
	}
	return keyPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// maskKey renders a key value for listings without revealing it.
func maskKey(value string) string {
	if len(value) <= len(keyPrefix)+4 {
		return value
	}
	return value[:len(keyPrefix)+4] + "****"
}

// keyJSON renders a public key for responses. The raw key value is never
// included; creation responses add it separately.
func keyJSON(k *store.PublicKey) map[string]any {
	var expiresAt, lastUsedAt any
	if k.ExpiresAt != nil {
		expiresAt = k.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if k.LastUsedAt != nil {
		lastUsedAt = k.LastUsedAt.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"uid":         k.UID,
		"keyPreview":  maskKey(k.Key),
		"name":        k.Name,
		"description": k.Description,
		"isActive":    k.IsActive,
		"allowedIps":  k.AllowedIPs,
		"expiresAt":   expiresAt,
		"createdBy":   k.CreatedBy,
		"createdAt":   k.CreatedAt.UTC().Format(time.RFC3339),
		"lastUsedAt":  lastUsedAt,
		"metadata":    k.Metadata,
	}
}

func (s *Server) handleKeysList(w http.ResponseWriter, r *http.Request) {
	keys, err := s.store.ListPublicKeys(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	rendered := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		rendered = append(rendered, keyJSON(k))
	}
	writeOK(w, "Public keys retrieved.", map[string]any{"publicKeys": rendered})
}

type keyRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsActive    *bool          `json:"isActive"`
	AllowedIPs  []string       `json:"allowedIps"`
	ExpiresAt   *time.Time     `json:"expiresAt"`
	Metadata    map[string]any `json:"metadata"`
}

func (s *Server) handleKeyCreate(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Key name is required.")
		return
	}

	value, err := generateKeyValue()
	if err != nil {
		writeError(w, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	allowedIPs := req.AllowedIPs
	if allowedIPs == nil {
		allowedIPs = []string{}
	}

	actor := auth.MustFromContext(r.Context())
	key := &store.PublicKey{
		UID:         newUID(),
		Key:         value,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    isActive,
		AllowedIPs:  allowedIPs,
		ExpiresAt:   req.ExpiresAt,
		CreatedBy:   actor.UID,
		CreatedAt:   time.Now().UTC(),
		Metadata:    req.Metadata,
	}

	if err := s.store.CreatePublicKey(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("created public key", "uid", key.UID, "by", actor.UID)

	// The raw value appears in this response only; afterwards listings
	// show the masked preview.
	writeOK(w, "Public key created. Store the key value now; it will not be shown again.", map[string]any{
		"publicKey": keyJSON(key),
		"key":       value,
	})
}

func (s *Server) handleKeyUpdate(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	// Omitted fields stay untouched; the explicit update struct keeps a
	// deactivation from wiping the key's expiry or allow-list.
	var req struct {
		Name        *string        `json:"name"`
		Description *string        `json:"description"`
		IsActive    *bool          `json:"isActive"`
		AllowedIPs  []string       `json:"allowedIps"`
		ExpiresAt   *time.Time     `json:"expiresAt"`
		Metadata    map[string]any `json:"metadata"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeFail(w, http.StatusBadRequest, "BAD_REQUEST", "Key name must not be empty.")
		return
	}

	key, err := s.store.UpdatePublicKey(r.Context(), uid, store.PublicKeyUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		AllowedIPs:  req.AllowedIPs,
		ExpiresAt:   req.ExpiresAt,
		Metadata:    req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "Public key updated.", map[string]any{"publicKey": keyJSON(key)})
}

func (s *Server) handleKeyDelete(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	if err := s.store.DeletePublicKey(r.Context(), uid); err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "Public key deleted.", nil)
}

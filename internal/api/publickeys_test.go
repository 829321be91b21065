// ABOUTME: Tests for machine key management and the machine whitelabel endpoint
// ABOUTME: Covers one-time key disclosure, masking, active-delete refusal, and the gate

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexui/cortex-api/internal/auth"
)

func TestPublicKeys_CreateDisclosesValueOnce(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", "password-123", "admin")
	mux := env.mux()

	rec := doJSON(t, mux, "POST", "/api/v1/system/public-keys", adminToken, map[string]any{
		"name":        "ci key",
		"description": "pipeline access",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := envelope(t, rec)
	raw, _ := body["key"].(string)
	require.True(t, strings.HasPrefix(raw, "cortex_"))
	assert.Greater(t, len(raw), 30)

	rendered := body["publicKey"].(map[string]any)
	assert.NotEqual(t, raw, rendered["keyPreview"])

	// Listings never carry the raw value
	rec = doJSON(t, mux, "GET", "/api/v1/system/public-keys", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), raw)
	assert.Contains(t, rec.Body.String(), "****")
}

func TestPublicKeys_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, viewerToken := env.createUser(t, "viewer@example.com", "password-123", "viewer")
	mux := env.mux()

	rec := doJSON(t, mux, "GET", "/api/v1/system/public-keys", viewerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicKeys_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", "password-123", "admin")
	mux := env.mux()

	rec := doJSON(t, mux, "POST", "/api/v1/system/public-keys", adminToken, map[string]any{
		"name": "rotating key",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	uid := envelope(t, rec)["publicKey"].(map[string]any)["uid"].(string)

	// Deleting an active key conflicts
	rec = doJSON(t, mux, "DELETE", "/api/v1/system/public-keys/"+uid, adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "KEY_ACTIVE", envelope(t, rec)["status"])

	// Deactivate, then delete succeeds
	rec = doJSON(t, mux, "PUT", "/api/v1/system/public-keys/"+uid, adminToken, map[string]any{
		"isActive":   false,
		"allowedIps": []string{"10.0.0.1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := envelope(t, rec)["publicKey"].(map[string]any)
	assert.Equal(t, false, updated["isActive"])

	rec = doJSON(t, mux, "DELETE", "/api/v1/system/public-keys/"+uid, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, "DELETE", "/api/v1/system/public-keys/"+uid, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicKeys_DeactivationKeepsExpiryAndDescription(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", "password-123", "admin")
	mux := env.mux()

	expires := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	rec := doJSON(t, mux, "POST", "/api/v1/system/public-keys", adminToken, map[string]any{
		"name":        "expiring key",
		"description": "rotated quarterly",
		"expiresAt":   expires.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	uid := envelope(t, rec)["publicKey"].(map[string]any)["uid"].(string)

	rec = doJSON(t, mux, "PUT", "/api/v1/system/public-keys/"+uid, adminToken, map[string]any{
		"isActive": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := envelope(t, rec)["publicKey"].(map[string]any)
	assert.Equal(t, false, updated["isActive"])
	assert.Equal(t, "rotated quarterly", updated["description"])
	assert.Equal(t, expires.Format(time.RFC3339), updated["expiresAt"])

	key, err := env.store.GetPublicKey(context.Background(), uid)
	require.NoError(t, err)
	require.NotNil(t, key.ExpiresAt)
	assert.True(t, key.ExpiresAt.Equal(expires))
	assert.Equal(t, "rotated quarterly", key.Description)
}

func TestPublicWhiteLabel_ViaKeyGate(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin@example.com", "password-123", "admin")
	mux := env.mux()

	rec := doJSON(t, mux, "POST", "/api/v1/system/public-keys", adminToken, map[string]any{
		"name": "frontend key",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	raw := envelope(t, rec)["key"].(string)

	// Without the header the gate refuses
	rec = doJSON(t, mux, "GET", "/api/v1/public/whitelabel", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// With the raw key it passes
	req := httptest.NewRequest("GET", "/api/v1/public/whitelabel", nil)
	req.Header.Set(auth.PublicKeyHeader, raw)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "whitelabel")
}

// ABOUTME: Tests for the bootstrap gate middleware
// ABOUTME: Covers the allow-list, refusal body, and open-after-setup behavior

package setupgate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	done bool
	err  error
}

func (f *fakeSettings) IsSetupCompleted(context.Context) (bool, error) {
	return f.done, f.err
}

func runGate(t *testing.T, settings SetupChecker, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	handler := Middleware(settings)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGate_AllowListBeforeSetup(t *testing.T) {
	settings := &fakeSettings{done: false}

	allowed := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/system/ping"},
		{http.MethodGet, "/api/v1/setup/status"},
		{http.MethodPost, "/api/v1/setup/complete"},
		{http.MethodOptions, "/api/v1/setup/complete"},
		{http.MethodPost, "/api/v1/system/token"},
		{http.MethodOptions, "/api/v1/system/token"},
		{http.MethodGet, "/docs"},
	}

	for _, tt := range allowed {
		rec := runGate(t, settings, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestGate_RefusesOutsideAllowList(t *testing.T) {
	settings := &fakeSettings{done: false}

	refused := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/settings/whitelabel"},
		// Right path, wrong method
		{http.MethodDelete, "/api/v1/setup/complete"},
		{http.MethodPost, "/api/v1/system/ping"},
	}

	for _, tt := range refused {
		rec := runGate(t, settings, tt.method, tt.path)
		require.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tt.method, tt.path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["isOk"])
		assert.Equal(t, "SETUP_REQUIRED", body["status"])
		assert.Equal(t, tt.path, body["requestedUrl"])
	}
}

func TestGate_OpenAfterSetup(t *testing.T) {
	settings := &fakeSettings{done: true}

	rec := runGate(t, settings, http.MethodPost, "/api/v1/auth/login")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runGate(t, settings, http.MethodGet, "/api/v1/users")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_StoreFailure(t *testing.T) {
	settings := &fakeSettings{err: errors.New("db closed")}

	rec := runGate(t, settings, http.MethodPost, "/api/v1/auth/login")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

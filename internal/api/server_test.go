// ABOUTME: Shared helpers for API handler tests
// ABOUTME: Builds a server over a temp SQLite store with real crypto collaborators

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexui/cortex-api/internal/auth"
	"github.com/cortexui/cortex-api/internal/secrets"
	"github.com/cortexui/cortex-api/internal/store"
)

// base64 of 32 bytes
const testEncryptionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

type testEnv struct {
	server  *Server
	store   *store.SQLiteStore
	secrets *secrets.Manager
	tokens  *auth.TokenService
}

type fakeExchanger struct {
	token string
	err   error
	codes []string
}

func (f *fakeExchanger) Exchange(_ context.Context, code string) (string, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sec, err := secrets.New("test-secret-key-that-is-long-enough", testEncryptionKey)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(sec.SigningKey(), "HS256", time.Hour)
	require.NoError(t, err)

	return &testEnv{
		server:  New(st, sec, tokens, &fakeExchanger{token: "exchanged-token"}),
		store:   st,
		secrets: sec,
		tokens:  tokens,
	}
}

// mux returns the routes without the bootstrap gate, for tests that target
// handlers directly.
func (e *testEnv) mux() http.Handler {
	m := http.NewServeMux()
	e.server.RegisterRoutes(m)
	return m
}

// completeSetup flips the setup flag directly in the store.
func (e *testEnv) completeSetup(t *testing.T) {
	t.Helper()
	require.NoError(t, e.store.CompleteSetup(context.Background()))
}

// createUser inserts an active user with the given role and returns it with
// a valid bearer token.
func (e *testEnv) createUser(t *testing.T, email, password, role string) (*store.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &store.User{
		UID:          newUID(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))

	token, err := e.tokens.Issue(user.UID, time.Hour)
	require.NoError(t, err)
	return user, token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// envelope decodes the response envelope.
func envelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var errExchange = errors.New("provider refused")

// ABOUTME: Shared test helpers for store tests
// ABOUTME: Creates a temp-file SQLite store per test

package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// setupTestStore creates a SQLite store backed by a temp file that is
// removed when the test finishes.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

// testUser builds a user with distinct values per index.
func testUser(i int) *User {
	now := time.Now().UTC()
	return &User{
		UID:          fmt.Sprintf("user-%d", i),
		Email:        fmt.Sprintf("user%d@example.com", i),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", i),
		Role:         "viewer",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

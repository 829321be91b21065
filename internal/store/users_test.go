// ABOUTME: Tests for user store operations
// ABOUTME: Covers CRUD, email uniqueness, explicit updates, and last-seen tracking

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, store.CreateUser(ctx, user))

	got, err := store.GetUser(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Role, got.Role)
	assert.True(t, got.IsActive)
	assert.Nil(t, got.LastSeen)

	byEmail, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.UID, byEmail.UID)
}

func TestUserStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetUser(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByEmail(ctx, "nope@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Create_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(1)))

	dup := testUser(2)
	dup.Email = testUser(1).Email
	err := store.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.CreateUser(ctx, testUser(i)))
	}

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserStore_Update_PartialFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, store.CreateUser(ctx, user))

	updated, err := store.UpdateUser(ctx, user.UID, UserUpdate{
		FirstName: strPtr("Changed"),
		Role:      strPtr("editor"),
		IsActive:  boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Changed", updated.FirstName)
	assert.Equal(t, "editor", updated.Role)
	assert.False(t, updated.IsActive)
	// Untouched fields survive
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.LastName, updated.LastName)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestUserStore_Update_DuplicateEmail(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, testUser(1)))
	require.NoError(t, store.CreateUser(ctx, testUser(2)))

	_, err := store.UpdateUser(ctx, "user-2", UserUpdate{Email: strPtr("user1@example.com")})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserStore_Update_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.UpdateUser(ctx, "nope", UserUpdate{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, store.CreateUser(ctx, user))
	require.NoError(t, store.DeleteUser(ctx, user.UID))

	_, err := store.GetUser(ctx, user.UID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.DeleteUser(ctx, user.UID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_TouchLastSeen(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := testUser(1)
	require.NoError(t, store.CreateUser(ctx, user))
	require.NoError(t, store.TouchUserLastSeen(ctx, user.UID))

	got, err := store.GetUser(ctx, user.UID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSeen)
	assert.False(t, got.LastSeen.IsZero())

	err = store.TouchUserLastSeen(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_CountAdmins(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	count, err := store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	admin := testUser(1)
	admin.Role = "admin"
	require.NoError(t, store.CreateUser(ctx, admin))
	require.NoError(t, store.CreateUser(ctx, testUser(2)))

	count, err = store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

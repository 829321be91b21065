// ABOUTME: Tests for public key store operations
// ABOUTME: Covers CRUD, lookup by value, active-delete refusal, and last-used tracking

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPublicKey(i int) *PublicKey {
	return &PublicKey{
		UID:        fmt.Sprintf("key-%d", i),
		Key:        fmt.Sprintf("cortex_testkeyvalue%d", i),
		Name:       fmt.Sprintf("Key %d", i),
		IsActive:   true,
		AllowedIPs: []string{},
		CreatedBy:  "user-1",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPublicKeyStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	key := testPublicKey(1)
	key.Description = "integration key"
	key.AllowedIPs = []string{"10.0.0.1", "10.0.0.2"}
	key.ExpiresAt = &expires
	key.Metadata = map[string]any{"env": "staging"}

	require.NoError(t, store.CreatePublicKey(ctx, key))

	got, err := store.GetPublicKey(ctx, key.UID)
	require.NoError(t, err)
	assert.Equal(t, key.Key, got.Key)
	assert.Equal(t, "integration key", got.Description)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, got.AllowedIPs)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))
	assert.Equal(t, "staging", got.Metadata["env"])
	assert.Nil(t, got.LastUsedAt)

	byValue, err := store.GetPublicKeyByValue(ctx, key.Key)
	require.NoError(t, err)
	assert.Equal(t, key.UID, byValue.UID)
}

func TestPublicKeyStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetPublicKey(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetPublicKeyByValue(ctx, "cortex_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicKeyStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.CreatePublicKey(ctx, testPublicKey(i)))
	}

	keys, err := store.ListPublicKeys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestPublicKeyStore_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := testPublicKey(1)
	require.NoError(t, store.CreatePublicKey(ctx, key))

	name := "renamed"
	inactive := false
	got, err := store.UpdatePublicKey(ctx, key.UID, PublicKeyUpdate{
		Name:       &name,
		IsActive:   &inactive,
		AllowedIPs: []string{"192.168.1.1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.False(t, got.IsActive)
	assert.Equal(t, []string{"192.168.1.1"}, got.AllowedIPs)

	_, err = store.UpdatePublicKey(ctx, "nope", PublicKeyUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicKeyStore_Update_OmittedFieldsSurvive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	key := testPublicKey(1)
	key.Description = "pipeline access"
	key.AllowedIPs = []string{"10.0.0.1"}
	key.ExpiresAt = &expires
	require.NoError(t, store.CreatePublicKey(ctx, key))

	inactive := false
	got, err := store.UpdatePublicKey(ctx, key.UID, PublicKeyUpdate{IsActive: &inactive})
	require.NoError(t, err)

	assert.False(t, got.IsActive)
	assert.Equal(t, "pipeline access", got.Description)
	assert.Equal(t, []string{"10.0.0.1"}, got.AllowedIPs)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))
}

func TestPublicKeyStore_Delete_RefusesActive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := testPublicKey(1)
	require.NoError(t, store.CreatePublicKey(ctx, key))

	err := store.DeletePublicKey(ctx, key.UID)
	assert.ErrorIs(t, err, ErrKeyActive)

	inactive := false
	_, err = store.UpdatePublicKey(ctx, key.UID, PublicKeyUpdate{IsActive: &inactive})
	require.NoError(t, err)
	require.NoError(t, store.DeletePublicKey(ctx, key.UID))

	_, err = store.GetPublicKey(ctx, key.UID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicKeyStore_Touch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := testPublicKey(1)
	require.NoError(t, store.CreatePublicKey(ctx, key))
	require.NoError(t, store.TouchPublicKey(ctx, key.UID))

	got, err := store.GetPublicKey(ctx, key.UID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.False(t, got.LastUsedAt.IsZero())
}

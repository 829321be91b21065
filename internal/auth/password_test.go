// ABOUTME: Tests for bcrypt password hashing and verification
// ABOUTME: Covers round trips, mismatches, and the dummy compare

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword("", "anything"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	a, err := HashPassword("same password")
	require.NoError(t, err)
	b, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyDummy_AlwaysFalse(t *testing.T) {
	assert.False(t, VerifyDummy("anything"))
	assert.False(t, VerifyDummy(""))
}

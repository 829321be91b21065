// ABOUTME: Tests for settings and config record persistence
// ABOUTME: Covers the one-shot setup flag, the self-signup switch, and singleton replacement

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_GetSet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetSetting(ctx, SettingSelfSignup)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetSetting(ctx, SettingSelfSignup, "true"))
	value, err := store.GetSetting(ctx, SettingSelfSignup)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	require.NoError(t, store.SetSetting(ctx, SettingSelfSignup, "false"))
	value, err = store.GetSetting(ctx, SettingSelfSignup)
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

func TestSettings_CompleteSetup_ExactlyOnce(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	done, err := store.IsSetupCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.CompleteSetup(ctx))

	done, err = store.IsSetupCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	err = store.CompleteSetup(ctx)
	assert.ErrorIs(t, err, ErrSetupAlreadyCompleted)

	// Flag stays set
	done, err = store.IsSetupCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestConfigRecords_ReplaceOnWrite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var missing WhiteLabel
	err := store.GetConfigRecord(ctx, ConfigWhiteLabel, &missing)
	assert.ErrorIs(t, err, ErrNotFound)

	first := WhiteLabel{AppName: "Cortex", LogoURL: "/logo.png", PrimaryColor: "#223344"}
	require.NoError(t, store.SetConfigRecord(ctx, ConfigWhiteLabel, first))

	var got WhiteLabel
	require.NoError(t, store.GetConfigRecord(ctx, ConfigWhiteLabel, &got))
	assert.Equal(t, first, got)

	second := WhiteLabel{AppName: "Renamed"}
	require.NoError(t, store.SetConfigRecord(ctx, ConfigWhiteLabel, second))

	require.NoError(t, store.GetConfigRecord(ctx, ConfigWhiteLabel, &got))
	assert.Equal(t, "Renamed", got.AppName)
	assert.Empty(t, got.LogoURL)
}

func TestConfigRecords_SMTPRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	smtp := SMTPConfig{
		Host:     "mail.example.com",
		Port:     587,
		Username: "mailer",
		Password: "opaque-ciphertext",
		Sender:   "noreply@example.com",
		UseTLS:   true,
	}
	require.NoError(t, store.SetConfigRecord(ctx, ConfigSMTP, smtp))

	var got SMTPConfig
	require.NoError(t, store.GetConfigRecord(ctx, ConfigSMTP, &got))
	assert.Equal(t, smtp, got)
}

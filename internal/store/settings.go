// ABOUTME: Operational flag persistence on the settings key/value table
// ABOUTME: Carries the one-shot setup flag and the self-signup switch

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSetting retrieves a setting value by key.
// Returns ErrNotFound if the key has never been written.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying setting: %w", err)
	}
	return value, nil
}

// SetSetting writes a setting value, replacing any previous one.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("writing setting: %w", err)
	}

	s.logger.Debug("wrote setting", "key", key)
	return nil
}

// IsSetupCompleted reports whether the one-time setup has been completed.
// A missing flag counts as not completed.
func (s *SQLiteStore) IsSetupCompleted(ctx context.Context) (bool, error) {
	value, err := s.GetSetting(ctx, SettingSetupCompleted)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

// CompleteSetup flips the setup flag exactly once. The guard is a single
// conditional write so two racing calls cannot both succeed.
// Returns ErrSetupAlreadyCompleted on every call after the first.
func (s *SQLiteStore) CompleteSetup(ctx context.Context) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, 'true', ?)
		ON CONFLICT(key) DO UPDATE SET value = 'true', updated_at = excluded.updated_at
		WHERE settings.value != 'true'
	`, SettingSetupCompleted, now)
	if err != nil {
		return fmt.Errorf("completing setup: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSetupAlreadyCompleted
	}

	s.logger.Info("setup completed")
	return nil
}

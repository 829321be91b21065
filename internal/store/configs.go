// ABOUTME: Replace-on-write configuration singletons stored as JSON payloads
// ABOUTME: Holds branding, SMTP, analytics, and mail token records by kind

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GetConfigRecord loads the configuration record of the given kind into out.
// Returns ErrNotFound if the record has never been written.
func (s *SQLiteStore) GetConfigRecord(ctx context.Context, kind string, out any) error {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM config_records WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying config record: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decoding config record %q: %w", kind, err)
	}
	return nil
}

// SetConfigRecord writes the configuration record of the given kind,
// replacing any previous value.
func (s *SQLiteStore) SetConfigRecord(ctx context.Context, kind string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding config record %q: %w", kind, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO config_records (kind, payload, updated_at)
		VALUES (?, ?, ?)
	`, kind, string(payload), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("writing config record: %w", err)
	}

	s.logger.Debug("wrote config record", "kind", kind)
	return nil
}

// ABOUTME: Append-only login audit trail persistence
// ABOUTME: Records every authentication attempt with source IP, user agent, and outcome

package store

import (
	"context"
	"fmt"
)

// SaveLoginAttempt appends a login attempt to the audit trail.
func (s *SQLiteStore) SaveLoginAttempt(ctx context.Context, attempt *LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (id, identifier, ip_address, user_agent, success, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.Identifier,
		attempt.IPAddress,
		attempt.UserAgent,
		attempt.Success,
		formatTime(attempt.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting login attempt: %w", err)
	}

	s.logger.Debug("saved login attempt", "identifier", attempt.Identifier, "success", attempt.Success)
	return nil
}

// ListLoginAttempts returns the most recent login attempts, newest first.
// If limit is 0 or negative, a default limit of 100 is used.
func (s *SQLiteStore) ListLoginAttempts(ctx context.Context, limit int) ([]*LoginAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT id, identifier, ip_address, user_agent, success, created_at
		FROM login_attempts
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*LoginAttempt
	for rows.Next() {
		var a LoginAttempt
		var success int
		var createdAtStr string

		if err := rows.Scan(&a.ID, &a.Identifier, &a.IPAddress, &a.UserAgent, &success, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning login attempt row: %w", err)
		}

		a.Success = success != 0
		a.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		attempts = append(attempts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating login attempt rows: %w", err)
	}
	return attempts, nil
}

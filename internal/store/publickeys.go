// ABOUTME: Machine API key persistence for cortex-api
// ABOUTME: CRUD on the public_keys table with allowed-IP and metadata JSON columns

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const publicKeyColumns = `uid, key, name, description, is_active, allowed_ips, expires_at, created_by, created_at, last_used_at, metadata_json`

// CreatePublicKey inserts a new machine API key.
func (s *SQLiteStore) CreatePublicKey(ctx context.Context, key *PublicKey) error {
	allowedIPs, err := json.Marshal(key.AllowedIPs)
	if err != nil {
		return fmt.Errorf("encoding allowed_ips: %w", err)
	}

	var metadata any
	if key.Metadata != nil {
		encoded, err := json.Marshal(key.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		metadata = string(encoded)
	}

	query := `
		INSERT INTO public_keys (uid, key, name, description, is_active, allowed_ips, expires_at, created_by, created_at, last_used_at, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		key.UID,
		key.Key,
		key.Name,
		key.Description,
		key.IsActive,
		string(allowedIPs),
		nullTime(key.ExpiresAt),
		key.CreatedBy,
		formatTime(key.CreatedAt),
		nullTime(key.LastUsedAt),
		metadata,
	)
	if err != nil {
		return fmt.Errorf("inserting public key: %w", err)
	}

	s.logger.Info("created public key", "uid", key.UID, "name", key.Name)
	return nil
}

// GetPublicKey retrieves a key by UID.
// Returns ErrNotFound if the key doesn't exist.
func (s *SQLiteStore) GetPublicKey(ctx context.Context, uid string) (*PublicKey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+publicKeyColumns+` FROM public_keys WHERE uid = ?`, uid)
	return scanPublicKey(row)
}

// GetPublicKeyByValue retrieves a key by its opaque key value.
// Returns ErrNotFound if no key matches.
func (s *SQLiteStore) GetPublicKeyByValue(ctx context.Context, value string) (*PublicKey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+publicKeyColumns+` FROM public_keys WHERE key = ?`, value)
	return scanPublicKey(row)
}

func scanPublicKey(row *sql.Row) (*PublicKey, error) {
	var key PublicKey
	var isActive int
	var allowedIPs string
	var expiresAt, lastUsedAt, metadata sql.NullString
	var createdAtStr string

	err := row.Scan(
		&key.UID,
		&key.Key,
		&key.Name,
		&key.Description,
		&isActive,
		&allowedIPs,
		&expiresAt,
		&key.CreatedBy,
		&createdAtStr,
		&lastUsedAt,
		&metadata,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning public key: %w", err)
	}

	key.IsActive = isActive != 0

	if err := json.Unmarshal([]byte(allowedIPs), &key.AllowedIPs); err != nil {
		return nil, fmt.Errorf("decoding allowed_ips: %w", err)
	}
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &key.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}

	key.ExpiresAt, err = scanNullTime(expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	key.LastUsedAt, err = scanNullTime(lastUsedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing last_used_at: %w", err)
	}
	key.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &key, nil
}

// ListPublicKeys returns all keys ordered by creation time.
func (s *SQLiteStore) ListPublicKeys(ctx context.Context) ([]*PublicKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+publicKeyColumns+` FROM public_keys ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying public keys: %w", err)
	}
	defer rows.Close()

	var keys []*PublicKey
	for rows.Next() {
		var key PublicKey
		var isActive int
		var allowedIPs string
		var expiresAt, lastUsedAt, metadata sql.NullString
		var createdAtStr string

		if err := rows.Scan(
			&key.UID,
			&key.Key,
			&key.Name,
			&key.Description,
			&isActive,
			&allowedIPs,
			&expiresAt,
			&key.CreatedBy,
			&createdAtStr,
			&lastUsedAt,
			&metadata,
		); err != nil {
			return nil, fmt.Errorf("scanning public key row: %w", err)
		}

		key.IsActive = isActive != 0

		if err := json.Unmarshal([]byte(allowedIPs), &key.AllowedIPs); err != nil {
			return nil, fmt.Errorf("decoding allowed_ips: %w", err)
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &key.Metadata); err != nil {
				return nil, fmt.Errorf("decoding metadata: %w", err)
			}
		}

		key.ExpiresAt, err = scanNullTime(expiresAt)
		if err != nil {
			return nil, fmt.Errorf("parsing expires_at: %w", err)
		}
		key.LastUsedAt, err = scanNullTime(lastUsedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing last_used_at: %w", err)
		}
		key.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		keys = append(keys, &key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating public key rows: %w", err)
	}
	return keys, nil
}

// UpdatePublicKey applies the set fields of update to the key and returns
// the updated row. Returns ErrNotFound if the key doesn't exist.
func (s *SQLiteStore) UpdatePublicKey(ctx context.Context, uid string, update PublicKeyUpdate) (*PublicKey, error) {
	var setClauses []string
	var args []any

	if update.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *update.Description)
	}
	if update.IsActive != nil {
		setClauses = append(setClauses, "is_active = ?")
		args = append(args, *update.IsActive)
	}
	if update.AllowedIPs != nil {
		allowedIPs, err := json.Marshal(update.AllowedIPs)
		if err != nil {
			return nil, fmt.Errorf("encoding allowed_ips: %w", err)
		}
		setClauses = append(setClauses, "allowed_ips = ?")
		args = append(args, string(allowedIPs))
	}
	if update.ExpiresAt != nil {
		setClauses = append(setClauses, "expires_at = ?")
		args = append(args, formatTime(*update.ExpiresAt))
	}
	if update.Metadata != nil {
		metadata, err := json.Marshal(update.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encoding metadata: %w", err)
		}
		setClauses = append(setClauses, "metadata_json = ?")
		args = append(args, string(metadata))
	}

	if len(setClauses) == 0 {
		return s.GetPublicKey(ctx, uid)
	}

	query := "UPDATE public_keys SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += " WHERE uid = ?"
	args = append(args, uid)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating public key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated public key", "uid", uid)
	return s.GetPublicKey(ctx, uid)
}

// DeletePublicKey removes an inactive key permanently.
// Returns ErrKeyActive if the key is still active and ErrNotFound if it
// doesn't exist.
func (s *SQLiteStore) DeletePublicKey(ctx context.Context, uid string) error {
	key, err := s.GetPublicKey(ctx, uid)
	if err != nil {
		return err
	}
	if key.IsActive {
		return ErrKeyActive
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM public_keys WHERE uid = ? AND is_active = 0`, uid)
	if err != nil {
		return fmt.Errorf("deleting public key: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted public key", "uid", uid)
	return nil
}

// TouchPublicKey sets the key's last_used_at timestamp to now.
func (s *SQLiteStore) TouchPublicKey(ctx context.Context, uid string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE public_keys SET last_used_at = ? WHERE uid = ?`,
		formatTime(time.Now()), uid)
	if err != nil {
		return fmt.Errorf("updating last_used_at: %w", err)
	}
	return nil
}

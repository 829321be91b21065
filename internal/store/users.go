// ABOUTME: User account persistence for cortex-api
// ABOUTME: CRUD plus last-seen tracking and admin counting on the users table

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const userColumns = `uid, email, password_hash, first_name, last_name, role, is_active, last_seen, created_at, updated_at`

// CreateUser inserts a new user.
// Returns ErrEmailExists if the email is already taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (uid, email, password_hash, first_name, last_name, role, is_active, last_seen, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.UID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		nullTime(user.LastSeen),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("created user", "uid", user.UID, "email", user.Email, "role", user.Role)
	return nil
}

// GetUser retrieves a user by UID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, uid string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = ?`, uid)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
// Returns ErrNotFound if no user has the given email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var isActive int
	var lastSeen sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.UID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&isActive,
		&lastSeen,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	user.IsActive = isActive != 0

	user.LastSeen, err = scanNullTime(lastSeen)
	if err != nil {
		return nil, fmt.Errorf("parsing last_seen: %w", err)
	}
	user.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	user.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &user, nil
}

// ListUsers returns all users ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var user User
		var isActive int
		var lastSeen sql.NullString
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&user.UID,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.Role,
			&isActive,
			&lastSeen,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}

		user.IsActive = isActive != 0

		user.LastSeen, err = scanNullTime(lastSeen)
		if err != nil {
			return nil, fmt.Errorf("parsing last_seen: %w", err)
		}
		user.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		user.UpdatedAt, err = parseTime(updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateUser applies the set fields of update to the user and returns the
// updated row. Returns ErrNotFound if the user doesn't exist and
// ErrEmailExists if the new email is already taken.
func (s *SQLiteStore) UpdateUser(ctx context.Context, uid string, update UserUpdate) (*User, error) {
	setClauses := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	if update.Email != nil {
		setClauses = append(setClauses, "email = ?")
		args = append(args, *update.Email)
	}
	if update.PasswordHash != nil {
		setClauses = append(setClauses, "password_hash = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.FirstName != nil {
		setClauses = append(setClauses, "first_name = ?")
		args = append(args, *update.FirstName)
	}
	if update.LastName != nil {
		setClauses = append(setClauses, "last_name = ?")
		args = append(args, *update.LastName)
	}
	if update.Role != nil {
		setClauses = append(setClauses, "role = ?")
		args = append(args, *update.Role)
	}
	if update.IsActive != nil {
		setClauses = append(setClauses, "is_active = ?")
		args = append(args, *update.IsActive)
	}

	query := "UPDATE users SET "
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
		if isConstraintViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug("updated user", "uid", uid)
	return s.GetUser(ctx, uid)
}

// DeleteUser removes a user permanently.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) DeleteUser(ctx context.Context, uid string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted user", "uid", uid)
	return nil
}

// TouchUserLastSeen sets the user's last_seen timestamp to now.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) TouchUserLastSeen(ctx context.Context, uid string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_seen = ? WHERE uid = ?`,
		formatTime(time.Now()), uid)
	if err != nil {
		return fmt.Errorf("updating last_seen: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAdmins returns the number of users with the admin role.
func (s *SQLiteStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventbuddy/backend/internal/models"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, login, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Login,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByLogin retrieves a user by their login.
func (s *SQLiteStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT id, login, display_name, password_hash, created_at, updated_at
		FROM users
		WHERE login = ?
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, login).Scan(
		&user.ID,
		&user.Login,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user, nil
}

// GetUsersByLogins retrieves multiple users keyed by login.
// Logins that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByLogins(ctx context.Context, logins []string) (map[string]*models.User, error) {
	if len(logins) == 0 {
		return make(map[string]*models.User), nil
	}

	query := `
		SELECT id, login, display_name, password_hash, created_at, updated_at
		FROM users
		WHERE login IN (?` + repeatPlaceholder(len(logins)-1) + `)`

	args := make([]interface{}, len(logins))
	for i, login := range logins {
		args[i] = login
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by logins: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*models.User)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Login,
			&user.DisplayName,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.Login] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

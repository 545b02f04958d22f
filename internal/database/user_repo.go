package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/reliant-hq/quote-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
)

// GetUserByEmail retrieves an active user and their roles by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, is_active, created_at
		FROM users
		WHERE email = $1 AND is_active = true
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if u.Roles, err = db.getUserRoles(ctx, u.ID); err != nil {
		return nil, err
	}

	return u, nil
}

// GetUserByID retrieves a user and their roles by ID
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	u := &models.User{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, is_active, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if u.Roles, err = db.getUserRoles(ctx, u.ID); err != nil {
		return nil, err
	}

	return u, nil
}

func (db *DB) getUserRoles(ctx context.Context, userID int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}

	return roles, rows.Err()
}

// ListUsersWithRoles returns all users with their role names, oldest first
func (db *DB) ListUsersWithRoles(ctx context.Context) ([]*models.UserListItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, COALESCE(u.full_name, ''), u.email,
		       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles r ON r.id = ur.role_id
		GROUP BY u.id, u.full_name, u.email
		ORDER BY u.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.UserListItem
	for rows.Next() {
		u := &models.UserListItem{}
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Roles); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// AssignRole replaces the user's roles with the single named role
func (db *DB) AssignRole(ctx context.Context, userID int, roleName string) error {
	var roleID int
	err := db.Pool.QueryRow(ctx,
		"SELECT id FROM roles WHERE name = $1", roleName,
	).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoleNotFound
		}
		return err
	}

	var exists bool
	err = db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)", userID, roleID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

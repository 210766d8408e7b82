package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"whatsflow/pkg/contracts/domain"
)

// CreateUser inserts user and sets its ID. Emails are stored lowercased.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.Email = normalizeEmail(user.Email)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, is_admin) VALUES (?, ?, ?)`,
		user.Email, user.PasswordHash, user.IsAdmin)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if user.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

// UserByEmail looks a user up by email, case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	return s.queryUser(ctx, `WHERE email = ?`, email, "user "+email)
}

// UserByID looks a user up by id.
func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.queryUser(ctx, `WHERE id = ?`, id, fmt.Sprintf("user %d", id))
}

// UpdateUserEmail changes a user's email.
func (s *Store) UpdateUserEmail(ctx context.Context, id int64, email string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, normalizeEmail(email), id)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("email %s: %w", email, ErrDuplicate)
		}
		return fmt.Errorf("failed to update email: %w", err)
	}
	return expectOne(res, fmt.Sprintf("user %d", id))
}

// UpdateUserPassword replaces a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOne(res, fmt.Sprintf("user %d", id))
}

func (s *Store) queryUser(ctx context.Context, where string, arg any, what string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_admin FROM users `+where, arg,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", what, err)
	}
	return &user, nil
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

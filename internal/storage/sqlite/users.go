package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hetulpatel/userstore/internal/models"
)

var (
	// ErrNotFound is returned when no user matches the given username.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when an insert violates the username or
	// email uniqueness constraint.
	ErrConflict = errors.New("username or email already taken")
)

// InsertUser adds a new user and returns it with its generated id. A
// uniqueness violation rolls the transaction back and returns ErrConflict.
func (s *Store) InsertUser(ctx context.Context, username, email, password string) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password) VALUES (?, ?, ?)`,
		username, email, password)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &models.User{ID: id, Username: username, Email: email, Password: password}, nil
}

// modernc.org/sqlite exposes no typed error for SQLITE_CONSTRAINT_UNIQUE,
// so match the driver's message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetUser returns the user with the exact username, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password FROM users WHERE username = ?`, username)
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// AllUsers returns every user ordered by id.
func (s *Store) AllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, email, password FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateEmail sets a new email on the named user and returns the updated
// record, or ErrNotFound when the username does not exist.
func (s *Store) UpdateEmail(ctx context.Context, username, newEmail string) (*models.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ? WHERE username = ?`, newEmail, username); err != nil {
		return nil, fmt.Errorf("update email: %w", err)
	}
	user.Email = newEmail
	return user, nil
}

// DeleteUser removes the named user, or returns ErrNotFound.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByEmail loads every user and keeps those whose email contains the
// substring. The filtering stays in memory; total reports the table size
// so callers can tell an empty table from an empty match set.
func (s *Store) FindByEmail(ctx context.Context, substr string) (matches []models.User, total int, err error) {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		if strings.Contains(u.Email, substr) {
			matches = append(matches, u)
		}
	}
	return matches, len(users), nil
}

// ListRange loads every user and returns the window [offset, offset+limit)
// clamped to the table, in id order. No LIMIT/OFFSET is pushed into SQL.
func (s *Store) ListRange(ctx context.Context, limit, offset int) (window []models.User, total int, err error) {
	users, err := s.AllUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	start := offset
	if start < 0 {
		start = 0
	}
	if start > len(users) {
		start = len(users)
	}
	end := start
	if limit > 0 {
		end = start + limit
		if end > len(users) {
			end = len(users)
		}
	}
	return users[start:end], len(users), nil
}

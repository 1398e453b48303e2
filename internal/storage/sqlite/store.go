package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hetulpatel/userstore/internal/models"
)

const (
	defaultPath = "data/users.db"
)

// Store wraps a SQLite DB connection. One Store is opened per command
// invocation and closed when the command exits.
type Store struct {
	path string
	db   *sql.DB
}

// Open creates (if needed) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := ensureWAL(db); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTables ensures the users table exists.
func (s *Store) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, usersSchemaSQL)
	return err
}

// DropTables removes the users table.
func (s *Store) DropTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS users;`)
	return err
}

// Initialize drops all tables, recreates the schema, and inserts the
// seed user. Returns the seeded record with its generated id.
func (s *Store) Initialize(ctx context.Context) (*models.User, error) {
	if err := s.DropTables(ctx); err != nil {
		return nil, fmt.Errorf("drop tables: %w", err)
	}
	if err := s.CreateTables(ctx); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	user, err := s.InsertUser(ctx, "bob", "bob@mail.com", "bobpass")
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	return user, nil
}

const usersSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);
`

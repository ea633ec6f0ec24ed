package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines the interface for account persistence.
type Repository interface {
	// Create inserts a new account. The generated ID is written back to u.
	// Returns ErrEmailExists if the email or username is already taken.
	Create(ctx context.Context, u *User) error

	// GetByEmail retrieves an account by email address.
	// Returns ErrNotFound if no such account exists.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves an account by its numeric ID.
	// Returns ErrNotFound if no such account exists.
	GetByID(ctx context.Context, id int64) (*User, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed account repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new account in a single statement. Uniqueness of email
// and username is enforced by the schema, so a duplicate registration
// surfaces as a constraint violation rather than a racy pre-check.
func (r *SQLiteRepository) Create(ctx context.Context, u *User) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, pass, email, name) VALUES (?, ?, ?, ?)",
		u.Username, u.PasswordHash, u.Email, u.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new user id: %w", err)
	}
	u.ID = id

	return nil
}

// GetByEmail retrieves an account by email address.
func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx,
		"SELECT id, username, pass, email, name FROM users WHERE email = ?", email)
}

// GetByID retrieves an account by its numeric ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getUser(ctx,
		"SELECT id, username, pass, email, name FROM users WHERE id = ?", id)
}

// getUser executes a query and scans a single user result.
func (r *SQLiteRepository) getUser(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}

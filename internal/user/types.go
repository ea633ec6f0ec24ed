package user

import "errors"

// User represents a registered account.
//
// Username always equals Email: registration derives the username from the
// email address and no operation sets them independently.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never serialised
	Email        string `json:"email"`
	Name         string `json:"name"`
}

// Sentinel errors for user operations.
var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
)

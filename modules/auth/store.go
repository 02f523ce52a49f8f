package auth

import (
	"context"
	"time"
)

// Storage defines the persistence operations the auth service needs. A Mongo
// implementation lives in mongo_store.go; tests use an in-memory double.
type Storage interface {
	// CreateUser inserts a new user. Returns ErrEmailAlreadyExists when the
	// email is taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID returns the user or ErrUserNotFound.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail returns the user or ErrUserNotFound. Email must already
	// be normalized.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword replaces the password hash and stamps passwordChangedAt.
	UpdatePassword(ctx context.Context, id string, hash []byte, changedAt time.Time) error

	// SetResetToken stores the hashed reset secret and its expiry.
	SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error

	// ClearResetToken removes any pending reset state.
	ClearResetToken(ctx context.Context, id string) error

	// CompleteReset atomically finds the user whose unexpired reset token
	// matches tokenHash, replaces the password hash, stamps changedAt, and
	// clears the reset fields. Returns ErrInvalidResetToken when no such user
	// exists. At most one concurrent call can succeed for a given token.
	CompleteReset(ctx context.Context, tokenHash string, hash []byte, changedAt time.Time) (*User, error)
}

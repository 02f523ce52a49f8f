package auth

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserNotFound       = errors.New("auth: user not found")

	// ErrInvalidResetToken covers every reset completion failure: unknown
	// token, expired token, already consumed token. Callers must not be able
	// to tell these apart.
	ErrInvalidResetToken = errors.New("auth: invalid or expired reset token")

	ErrNotAuthenticated = errors.New("auth: not authenticated")
	ErrForbidden        = errors.New("auth: insufficient permissions")
)

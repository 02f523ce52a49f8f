package auth

import "context"

type contextKey struct{}

var userContextKey = contextKey{}

// SetUserToContext returns a context carrying the authenticated user.
func SetUserToContext(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the authenticated user, or false when the
// request is anonymous.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}

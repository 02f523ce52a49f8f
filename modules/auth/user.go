package auth

import "time"

// Role controls which parts of the API a user can reach.
type Role string

const (
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAuthor || r == RoleAdmin
}

// User is a registered account. Credential fields carry `json:"-"` so they can
// never leak through an API response.
type User struct {
	ID       string `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Photo    string `bson:"photo,omitempty" json:"photo,omitempty"`
	Role     Role   `bson:"role" json:"role"`

	PasswordHash      []byte    `bson:"password_hash" json:"-"`
	PasswordChangedAt time.Time `bson:"password_changed_at,omitempty" json:"-"`

	// Reset fields are set and cleared together; a user either has a pending
	// reset or none.
	ResetTokenHash      string    `bson:"reset_token_hash,omitempty" json:"-"`
	ResetTokenExpiresAt time.Time `bson:"reset_token_expires_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PasswordChangedAfter reports whether the password was changed after the
// given token issue time. Comparison is at second precision because JWT iat
// carries Unix seconds.
func (u *User) PasswordChangedAfter(issuedAt int64) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return issuedAt < u.PasswordChangedAt.Unix()
}

// HasPendingReset reports whether a reset token is outstanding and unexpired.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetTokenHash != "" && now.Before(u.ResetTokenExpiresAt)
}

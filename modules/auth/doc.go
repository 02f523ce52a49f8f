// Package auth implements accounts: registration, login, session tokens,
// password changes, the password reset flow, and the middleware that guards
// the rest of the API.
package auth

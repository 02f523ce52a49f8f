package jwt

import "errors"

var (
	ErrInvalidToken            = errors.New("jwt: invalid token")
	ErrNoToken                 = errors.New("jwt: no token in request")
	ErrExpiredToken            = errors.New("jwt: token is expired")
	ErrMissingSigningKey       = errors.New("jwt: missing signing key")
	ErrMissingClaims           = errors.New("jwt: missing claims")
	ErrInvalidSignature        = errors.New("jwt: invalid signature")
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
)

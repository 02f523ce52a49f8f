package auth

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/cookie"
	"github.com/dmitrymomot/inkwell/pkg/jwt"
)

// CookieName is the cookie carrying the session token for browser clients.
const CookieName = "jwt"

// TokenIssuer signs and verifies session tokens and packages them into the
// jwt cookie.
type TokenIssuer struct {
	svc     *jwt.Service
	cookies *cookie.Manager
	ttl     time.Duration
	secure  bool
}

// NewTokenIssuer builds a TokenIssuer. Returns jwt.ErrMissingSigningKey when
// the signing secret is empty.
func NewTokenIssuer(signingKey string, ttl time.Duration, secure bool) (*TokenIssuer, error) {
	svc, err := jwt.NewFromString(signingKey)
	if err != nil {
		return nil, err
	}

	return &TokenIssuer{
		svc:     svc,
		cookies: cookie.New(cookie.WithSecure(secure)),
		ttl:     ttl,
		secure:  secure,
	}, nil
}

// TTL returns the token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for the given user id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	return t.svc.Generate(jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(t.ttl).Unix(),
	})
}

// Verify parses and validates a token, returning its claims. Errors are the
// pkg/jwt sentinels (ErrExpiredToken, ErrInvalidSignature, ErrInvalidToken).
func (t *TokenIssuer) Verify(token string) (*jwt.StandardClaims, error) {
	var claims jwt.StandardClaims
	if err := t.svc.Parse(token, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// WriteCookie sets the jwt cookie with a MaxAge equal to the token TTL.
func (t *TokenIssuer) WriteCookie(w http.ResponseWriter, token string) {
	t.cookies.Set(w, CookieName, token, cookie.WithMaxAge(int(t.ttl.Seconds())))
}

// ClearCookie expires the jwt cookie, logging the browser client out.
func (t *TokenIssuer) ClearCookie(w http.ResponseWriter) {
	t.cookies.Delete(w, CookieName)
}

package auth

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/inkwell/core"
	"github.com/dmitrymomot/inkwell/pkg/jwt"
)

// Middleware guards routes with token authentication and role checks.
type Middleware struct {
	tokens  *TokenIssuer
	storage Storage
	render  *core.ErrorRenderer
	extract jwt.TokenExtractorFunc
}

// NewMiddleware builds the middleware. Tokens are read from the Authorization
// header first, then from the jwt cookie.
func NewMiddleware(tokens *TokenIssuer, storage Storage, render *core.ErrorRenderer) *Middleware {
	return &Middleware{
		tokens:  tokens,
		storage: storage,
		render:  render,
		extract: jwt.ChainedExtractor(
			jwt.BearerTokenExtractor,
			jwt.CookieTokenExtractor(CookieName),
		),
	}
}

// Authenticate rejects requests without a valid token and injects the
// resolved user into the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			m.render.Render(r.Context(), w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserToContext(r.Context(), user)))
	})
}

// IdentifyIfPresent resolves the user when a token is supplied but lets
// anonymous requests through. A token that is present but invalid is still
// rejected.
func (m *Middleware) IdentifyIfPresent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			if errors.Is(err, errNoToken) {
				next.ServeHTTP(w, r)
				return
			}
			m.render.Render(r.Context(), w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserToContext(r.Context(), user)))
	})
}

// RequireRole allows only users whose role is in the given list. It must run
// after Authenticate; without an identity in context the request is rejected
// as unauthenticated rather than forbidden.
func (m *Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				m.render.Render(r.Context(), w,
					core.NewHTTPError(http.StatusUnauthorized, "you are not logged in, please log in to get access"))
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.render.Render(r.Context(), w,
				core.NewHTTPError(http.StatusForbidden, "you do not have permission to perform this action"))
		})
	}
}

// errNoToken distinguishes "no token at all" from invalid tokens so that
// IdentifyIfPresent can treat only the former as anonymous.
var errNoToken = core.NewHTTPError(http.StatusUnauthorized, "you are not logged in, please log in to get access")

func (m *Middleware) resolveUser(r *http.Request) (*User, error) {
	token, err := m.extract(r)
	if err != nil {
		if errors.Is(err, jwt.ErrNoToken) {
			return nil, errNoToken
		}
		return nil, core.NewHTTPError(http.StatusUnauthorized, "invalid token, please log in again")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, core.NewHTTPError(http.StatusUnauthorized, "your session has expired, please log in again")
		}
		return nil, core.NewHTTPError(http.StatusUnauthorized, "invalid token, please log in again")
	}

	user, err := m.storage.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, core.NewHTTPError(http.StatusUnauthorized, "the user belonging to this token no longer exists")
		}
		return nil, err
	}

	if user.PasswordChangedAfter(claims.IssuedAt) {
		return nil, core.NewHTTPError(http.StatusUnauthorized, "password was changed recently, please log in again")
	}

	return user, nil
}

package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/jwt"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("with valid signing key", func(t *testing.T) {
		service, err := jwt.New([]byte("secret"))
		require.NoError(t, err)
		require.NotNil(t, service)
	})

	t.Run("with empty signing key", func(t *testing.T) {
		service, err := jwt.New(nil)
		require.ErrorIs(t, err, jwt.ErrMissingSigningKey)
		require.Nil(t, service)
	})
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("test-signing-key")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		now := time.Now()
		token, err := service.Generate(jwt.StandardClaims{
			Subject:   "user123",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
		require.NotEmpty(t, token)

		var claims jwt.StandardClaims
		require.NoError(t, service.Parse(token, &claims))
		assert.Equal(t, "user123", claims.Subject)
		assert.Equal(t, now.Unix(), claims.IssuedAt)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.Generate(jwt.StandardClaims{
			Subject:   "user123",
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		})
		require.NoError(t, err)

		var claims jwt.StandardClaims
		err = service.Parse(token, &claims)
		require.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("token signed with different key", func(t *testing.T) {
		other, err := jwt.NewFromString("other-key")
		require.NoError(t, err)

		token, err := other.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		var claims jwt.StandardClaims
		err = service.Parse(token, &claims)
		require.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := service.Generate(jwt.StandardClaims{Subject: "user123"})
		require.NoError(t, err)

		var claims jwt.StandardClaims
		err = service.Parse(token+"x", &claims)
		require.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		var claims jwt.StandardClaims
		err := service.Parse("not-a-jwt", &claims)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("nil claims", func(t *testing.T) {
		_, err := service.Generate(nil)
		require.ErrorIs(t, err, jwt.ErrMissingClaims)
	})
}

func TestExtractors(t *testing.T) {
	t.Parallel()

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc.def.ghi")

		token, err := jwt.BearerTokenExtractor(r)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := jwt.BearerTokenExtractor(r)
		require.ErrorIs(t, err, jwt.ErrNoToken)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcg==")

		_, err := jwt.BearerTokenExtractor(r)
		require.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "jwt", Value: "abc.def.ghi"})

		token, err := jwt.CookieTokenExtractor("jwt")(r)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("chain falls back to cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "jwt", Value: "from-cookie"})

		extract := jwt.ChainedExtractor(
			jwt.BearerTokenExtractor,
			jwt.CookieTokenExtractor("jwt"),
		)
		token, err := extract(r)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("chain prefers bearer", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		r.AddCookie(&http.Cookie{Name: "jwt", Value: "from-cookie"})

		extract := jwt.ChainedExtractor(
			jwt.BearerTokenExtractor,
			jwt.CookieTokenExtractor("jwt"),
		)
		token, err := extract(r)
		require.NoError(t, err)
		assert.Equal(t, "from-header", token)
	})

	t.Run("chain with nothing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		extract := jwt.ChainedExtractor(
			jwt.BearerTokenExtractor,
			jwt.CookieTokenExtractor("jwt"),
		)
		_, err := extract(r)
		require.ErrorIs(t, err, jwt.ErrNoToken)
	})
}

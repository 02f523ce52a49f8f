package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/cookie"
)

func TestManagerSet(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		m := cookie.New()
		w := httptest.NewRecorder()
		m.Set(w, "session", "value")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "session", c.Name)
		assert.Equal(t, "value", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
	})

	t.Run("per call options override defaults", func(t *testing.T) {
		m := cookie.New(cookie.WithSecure(true))
		w := httptest.NewRecorder()
		m.Set(w, "jwt", "token", cookie.WithMaxAge(3600))

		c := w.Result().Cookies()[0]
		assert.True(t, c.Secure)
		assert.Equal(t, 3600, c.MaxAge)
	})
}

func TestManagerGet(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	t.Run("existing cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "jwt", Value: "token"})

		value, err := m.Get(r, "jwt")
		require.NoError(t, err)
		assert.Equal(t, "token", value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := m.Get(r, "jwt")
		require.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestManagerDelete(t *testing.T) {
	t.Parallel()

	m := cookie.New()
	w := httptest.NewRecorder()
	m.Delete(w, "jwt")

	c := w.Result().Cookies()[0]
	assert.Equal(t, "jwt", c.Name)
	assert.Equal(t, -1, c.MaxAge)
	assert.Empty(t, c.Value)
}

package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/core"
	"github.com/dmitrymomot/inkwell/pkg/validator"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	core.Success(w, http.StatusCreated, map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, map[string]any{"id": "42"}, body["data"])
}

func TestErrorRenderer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("validation errors become a 400 fail with details", func(t *testing.T) {
		render := core.NewErrorRenderer(nil, false)
		w := httptest.NewRecorder()

		err := validator.Apply(
			validator.RequiredString("email", ""),
			validator.MinLenString("password", "x", 8),
		)
		render.Render(ctx, w, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "fail", body["status"])

		details, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, details, "email")
		assert.Contains(t, details, "password")
	})

	t.Run("http error keeps its status", func(t *testing.T) {
		render := core.NewErrorRenderer(nil, false)
		w := httptest.NewRecorder()

		render.Render(ctx, w, core.NewHTTPError(http.StatusForbidden, "no access"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "fail", body["status"])
		assert.Equal(t, "no access", body["message"])
	})

	t.Run("unexpected error is hidden in production", func(t *testing.T) {
		render := core.NewErrorRenderer(nil, false)
		w := httptest.NewRecorder()

		render.Render(ctx, w, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "something went wrong", body["message"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("unexpected error is exposed in debug", func(t *testing.T) {
		render := core.NewErrorRenderer(nil, true)
		w := httptest.NewRecorder()

		render.Render(ctx, w, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})

	t.Run("wrapped http error unwraps", func(t *testing.T) {
		render := core.NewErrorRenderer(nil, false)
		w := httptest.NewRecorder()

		wrapped := errors.Join(errors.New("context"), core.ErrNotFound)
		render.Render(ctx, w, wrapped)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice"}`))
		var dst struct {
			Name string `json:"name"`
		}
		require.NoError(t, core.DecodeJSON(r, &dst))
		assert.Equal(t, "alice", dst.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var dst struct{}
		err := core.DecodeJSON(r, &dst)

		var httpErr core.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

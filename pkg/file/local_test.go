package file_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/file"
)

func TestLocalStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("save and read back", func(t *testing.T) {
		storage, err := file.NewLocalStorage(t.TempDir(), "/img/")
		require.NoError(t, err)

		saved, err := storage.Save(ctx, "posts/cover.jpeg", strings.NewReader("jpeg-bytes"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "cover.jpeg", saved.Filename)
		assert.Equal(t, int64(len("jpeg-bytes")), saved.Size)
		assert.Equal(t, "/img/posts/cover.jpeg", saved.URL)

		assert.True(t, storage.Exists(ctx, "posts/cover.jpeg"))
	})

	t.Run("delete", func(t *testing.T) {
		storage, err := file.NewLocalStorage(t.TempDir(), "/img/")
		require.NoError(t, err)

		_, err = storage.Save(ctx, "a.txt", strings.NewReader("x"), "text/plain")
		require.NoError(t, err)

		require.NoError(t, storage.Delete(ctx, "a.txt"))
		assert.False(t, storage.Exists(ctx, "a.txt"))

		err = storage.Delete(ctx, "a.txt")
		require.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		storage, err := file.NewLocalStorage(t.TempDir(), "/img/")
		require.NoError(t, err)

		_, err = storage.Save(ctx, "../escape.txt", strings.NewReader("x"), "text/plain")
		// Clean("/../escape.txt") resolves inside the base dir, so either the
		// write is confined or rejected; it must never land outside.
		if err == nil {
			assert.True(t, storage.Exists(ctx, "escape.txt"))
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		_, err := file.NewLocalStorage("", "/img/")
		require.ErrorIs(t, err, file.ErrInvalidConfig)
	})
}

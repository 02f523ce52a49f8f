package post_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/modules/post"
	"github.com/dmitrymomot/inkwell/pkg/file"
)

// multipartFileHeader builds a real *multipart.FileHeader the way an HTTP
// handler would receive one.
func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("cover", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(1<<20))

	_, fh, err := r.FormFile("cover")
	require.NoError(t, err)
	return fh
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCover(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newUploader := func(t *testing.T) (*post.Uploader, *post.Service) {
		t.Helper()

		svc, _ := newTestService(t)
		files, err := file.NewLocalStorage(t.TempDir(), "/img/")
		require.NoError(t, err)
		return post.NewUploader(svc, files, nil), svc
	}

	t.Run("stores a processed jpeg and attaches it to the post", func(t *testing.T) {
		uploader, svc := newUploader(t)
		p := createPost(t, svc, "author-1", "Go Concurrency Patterns")

		fh := multipartFileHeader(t, "cover.png", pngBytes(t, 800, 600))
		url, err := uploader.UploadCover(ctx, "author-1", p.ID, fh)
		require.NoError(t, err)
		assert.Contains(t, url, "post-author-1-")
		assert.Contains(t, url, ".jpeg")

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, url, got.CoverImage)
	})

	t.Run("rejects uploads by a non-owner", func(t *testing.T) {
		uploader, svc := newUploader(t)
		p := createPost(t, svc, "author-1", "Go Concurrency Patterns")

		fh := multipartFileHeader(t, "cover.png", pngBytes(t, 100, 100))
		_, err := uploader.UploadCover(ctx, "author-2", p.ID, fh)
		require.ErrorIs(t, err, post.ErrNotPostOwner)
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		uploader, svc := newUploader(t)
		p := createPost(t, svc, "author-1", "Go Concurrency Patterns")

		fh := multipartFileHeader(t, "notes.txt", []byte("plain text, not pixels"))
		_, err := uploader.UploadCover(ctx, "author-1", p.ID, fh)
		require.ErrorIs(t, err, post.ErrNotAnImage)

		got, err := svc.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, got.CoverImage)
	})

	t.Run("unknown post", func(t *testing.T) {
		uploader, _ := newUploader(t)

		fh := multipartFileHeader(t, "cover.png", pngBytes(t, 100, 100))
		_, err := uploader.UploadCover(ctx, "author-1", "missing", fh)
		require.ErrorIs(t, err, post.ErrPostNotFound)
	})
}

package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/imaging"
)

func pngFixture(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestResizeJPEG(t *testing.T) {
	t.Parallel()

	t.Run("resizes to target box", func(t *testing.T) {
		out, err := imaging.ResizeJPEG(pngFixture(t, 800, 600), 500, 500, 90)
		require.NoError(t, err)

		decoded, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 500, decoded.Bounds().Dx())
		assert.Equal(t, 500, decoded.Bounds().Dy())
	})

	t.Run("upscales small images", func(t *testing.T) {
		out, err := imaging.ResizeJPEG(pngFixture(t, 20, 20), 500, 500, 90)
		require.NoError(t, err)

		decoded, _, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 500, decoded.Bounds().Dx())
	})

	t.Run("accepts jpeg input", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 40))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, img, nil))

		_, err := imaging.ResizeJPEG(&buf, 100, 100, 80)
		require.NoError(t, err)
	})

	t.Run("rejects non-image input", func(t *testing.T) {
		_, err := imaging.ResizeJPEG(strings.NewReader("definitely not an image"), 500, 500, 90)
		require.ErrorIs(t, err, imaging.ErrDecodeFailed)
	})
}

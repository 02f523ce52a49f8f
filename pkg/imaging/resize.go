package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	// Register decoders for the upload formats we accept.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

var (
	// ErrDecodeFailed indicates the input is not a decodable image.
	ErrDecodeFailed = errors.New("imaging: failed to decode image")
	// ErrEncodeFailed indicates the resized image could not be encoded.
	ErrEncodeFailed = errors.New("imaging: failed to encode image")
)

// ResizeJPEG decodes an image, scales it to the given dimensions, and
// re-encodes it as JPEG with the given quality. The aspect ratio is not
// preserved; callers pass the exact target box.
func ResizeJPEG(r io.Reader, width, height, quality int) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	return buf.Bytes(), nil
}

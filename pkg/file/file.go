package file

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// File represents stored file metadata.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	RelativePath string
	URL          string
}

// Storage abstracts where processed uploads end up so that handlers don't
// care whether files land on local disk or in an object store.
type Storage interface {
	// Save stores the content under the given relative path and returns metadata.
	Save(ctx context.Context, path string, r io.Reader, contentType string) (*File, error)
	// Delete removes a single file.
	Delete(ctx context.Context, path string) error
	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for a file.
	URL(path string) string
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImage checks if the upload is an image based on detected MIME type,
// falling back to the extension when content sniffing is inconclusive.
// The dual check prevents bypasses using renamed extensions.
func IsImage(fh *multipart.FileHeader) bool {
	if fh == nil {
		return false
	}

	mimeType, err := DetectMIMEType(fh)
	if err == nil && mimeType != "" && mimeType != "application/octet-stream" {
		return imageMIMETypes[mimeType]
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// DetectMIMEType sniffs the content type from the first 512 bytes of the upload.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buf[:n])
	// Strip optional parameters like "; charset=utf-8"
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType, nil
}

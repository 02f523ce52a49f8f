package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage for the local filesystem.
// All operations are confined to baseDir to prevent path traversal.
type LocalStorage struct {
	baseDir string // Absolute path - all files stored within this directory
	baseURL string // URL prefix for serving files (e.g., "/img/")
}

// NewLocalStorage creates a local filesystem storage. baseDir is resolved to
// an absolute path and created if it doesn't exist.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrInvalidConfig, err)
	}

	if err := os.MkdirAll(absBaseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{
		baseDir: absBaseDir,
		baseURL: baseURL,
	}, nil
}

// Save writes the content to disk under baseDir. Partial files are removed on
// error so a failed upload never leaves junk behind.
func (s *LocalStorage) Save(ctx context.Context, path string, r io.Reader, contentType string) (*File, error) {
	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}

	size, err := io.Copy(dst, r)
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(fullPath)
		if err == nil {
			err = closeErr
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}

	return &File{
		Filename:     filepath.Base(path),
		Size:         size,
		MIMEType:     contentType,
		RelativePath: path,
		URL:          s.URL(path),
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	fullPath, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(fullPath)
	return err == nil
}

func (s *LocalStorage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(path, "/")
}

// resolve joins path with baseDir and rejects anything escaping it.
func (s *LocalStorage) resolve(path string) (string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.Clean("/"+path))
	if !strings.HasPrefix(fullPath, s.baseDir+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return fullPath, nil
}

package post

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/dmitrymomot/inkwell/pkg/file"
	"github.com/dmitrymomot/inkwell/pkg/imaging"
	"github.com/dmitrymomot/inkwell/pkg/logger"
)

// Cover images are normalized to a square JPEG before storage.
const (
	coverWidth   = 500
	coverHeight  = 500
	coverQuality = 90
)

// Uploader handles cover image uploads for posts.
type Uploader struct {
	svc   *Service
	files file.Storage
	log   *slog.Logger
}

// NewUploader builds an Uploader storing processed images in files.
func NewUploader(svc *Service, files file.Storage, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Uploader{svc: svc, files: files, log: log}
}

// UploadCover validates the upload is an image, resizes it, stores it, and
// attaches it to the author's post. Returns the public URL of the stored
// image.
func (u *Uploader) UploadCover(ctx context.Context, authorID, postID string, fh *multipart.FileHeader) (string, error) {
	p, err := u.svc.getOwned(ctx, authorID, postID)
	if err != nil {
		return "", err
	}

	if !file.IsImage(fh) {
		return "", ErrNotAnImage
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	resized, err := imaging.ResizeJPEG(f, coverWidth, coverHeight, coverQuality)
	if err != nil {
		return "", ErrNotAnImage
	}

	path := fmt.Sprintf("img/posts/post-%s-%d.jpeg", authorID, time.Now().UnixMilli())
	saved, err := u.files.Save(ctx, path, bytes.NewReader(resized), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store cover image: %w", err)
	}

	if err := u.svc.storage.SetCoverImage(ctx, p.ID, saved.URL); err != nil {
		return "", err
	}

	u.log.InfoContext(ctx, "cover image uploaded",
		logger.PostID(p.ID),
		logger.UserID(authorID),
		logger.Component("post"),
	)

	return saved.URL, nil
}

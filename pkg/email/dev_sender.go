package email

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements EmailSender for local development. It writes each
// message as an HTML file to a directory and logs the delivery instead of
// calling an email service.
type DevSender struct {
	dir    string
	logger *slog.Logger
}

// NewDevSender creates a development email sender that saves emails to disk.
// The directory is created on first send.
func NewDevSender(dir string, logger *slog.Logger) EmailSender {
	return &DevSender{dir: dir, logger: logger}
}

// SendEmail saves the email body to the configured directory.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	filename := fmt.Sprintf("%s_%s.html",
		time.Now().Format("2006_01_02_150405"),
		sanitizeFilename(params.Subject),
	)

	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, []byte(params.BodyHTML), 0644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrFailedToSendEmail, err)
	}

	d.logger.InfoContext(ctx, "email saved to disk",
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("path", path),
	)

	return nil
}

// sanitizeRegex matches characters that are not safe in filenames.
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}

	return strings.ToLower(s)
}

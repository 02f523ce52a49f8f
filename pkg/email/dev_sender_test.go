package email_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/inkwell/pkg/email"
)

func TestDevSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	t.Run("writes the body as an html file", func(t *testing.T) {
		dir := t.TempDir()
		sender := email.NewDevSender(dir, log)

		err := sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   "alice@example.com",
			Subject:  "Your password reset token",
			BodyHTML: "<p>Click here</p>",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Name(), "your_password_reset_token")

		body, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
		require.NoError(t, err)
		assert.Equal(t, "<p>Click here</p>", string(body))
	})

	t.Run("rejects invalid params before touching disk", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "never-created")
		sender := email.NewDevSender(dir, log)

		err := sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   "not-an-address",
			Subject:  "Hi",
			BodyHTML: "<p>x</p>",
		})
		require.ErrorIs(t, err, email.ErrInvalidParams)

		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "alice@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
	}{
		{"empty recipient", func(p *email.SendEmailParams) { p.SendTo = "" }},
		{"malformed recipient", func(p *email.SendEmailParams) { p.SendTo = "alice@" }},
		{"empty subject", func(p *email.SendEmailParams) { p.Subject = "" }},
		{"empty body", func(p *email.SendEmailParams) { p.BodyHTML = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			require.ErrorIs(t, params.Validate(), email.ErrInvalidParams)
		})
	}
}

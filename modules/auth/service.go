package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/inkwell/pkg/email"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	"github.com/dmitrymomot/inkwell/pkg/sanitizer"
	"github.com/dmitrymomot/inkwell/pkg/validator"
)

const (
	// bcrypt silently truncates beyond 72 bytes, so longer passwords are
	// rejected up front.
	passwordMinLen = 8
	passwordMaxLen = 72

	resetSecretBytes = 32
)

// Service implements account registration, login, password changes, and the
// password reset flow.
type Service struct {
	storage    Storage
	mailer     email.EmailSender
	log        *slog.Logger
	bcryptCost int
	resetTTL   time.Duration
	appBaseURL string
}

// Option configures the auth service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithResetTokenTTL overrides how long a reset token stays valid.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.resetTTL = ttl }
}

// WithAppBaseURL sets the base URL used in password reset links.
func WithAppBaseURL(base string) Option {
	return func(s *Service) { s.appBaseURL = base }
}

// NewService creates the auth service.
func NewService(storage Storage, mailer email.EmailSender, opts ...Option) *Service {
	s := &Service{
		storage:    storage,
		mailer:     mailer,
		log:        slog.New(slog.DiscardHandler),
		bcryptCost: 12,
		resetTTL:   10 * time.Minute,
		appBaseURL: "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUserParams carries signup input.
type CreateUserParams struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Photo           string `json:"photo,omitempty"`
}

// CreateUser registers a new author account. The password is stored only as a
// bcrypt hash.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	params.Username = sanitizer.Trim(params.Username)
	params.Email = sanitizer.NormalizeEmail(params.Email)

	if err := validator.Apply(
		validator.RequiredString("username", params.Username),
		validator.ValidEmail("email", params.Email),
		validator.MinLenString("password", params.Password, passwordMinLen),
		validator.MaxLenString("password", params.Password, passwordMaxLen),
		validator.EqualStrings("passwordConfirm", params.Password, params.PasswordConfirm),
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     params.Username,
		Email:        params.Email,
		Photo:        params.Photo,
		Role:         RoleAuthor,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)

	return user, nil
}

// Authenticate verifies email and password. Every failure is the generic
// ErrInvalidCredentials so callers cannot probe which emails are registered.
func (s *Service) Authenticate(ctx context.Context, emailAddr, password string) (*User, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword updates the password of a logged-in user after verifying the
// current one. passwordChangedAt is backdated one second so the token issued
// immediately afterwards is not itself rejected as stale.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, newPasswordConfirm string) (*User, error) {
	if err := validator.Apply(
		validator.MinLenString("password", newPassword, passwordMinLen),
		validator.MaxLenString("password", newPassword, passwordMaxLen),
		validator.EqualStrings("passwordConfirm", newPassword, newPasswordConfirm),
	); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(currentPassword)); err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	if err := s.storage.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	user.PasswordHash = hash
	user.PasswordChangedAt = changedAt

	s.log.InfoContext(ctx, "password changed",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)

	return user, nil
}

// ForgotPassword starts a password reset: a random secret is mailed to the
// user while only its sha256 digest is stored. If the email cannot be
// delivered the pending reset is rolled back so no orphaned token survives.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	user, err := s.storage.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	secret, tokenHash, err := newResetSecret()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.storage.SetResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", s.appBaseURL, secret)
	sendErr := s.mailer.SendEmail(ctx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  "Your password reset token (valid for 10 minutes)",
		BodyHTML: resetEmailBody(user.Username, resetURL),
		Tag:      "password-reset",
	})
	if sendErr != nil {
		if clearErr := s.storage.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.ErrorContext(ctx, "failed to roll back reset token",
				logger.UserID(user.ID),
				logger.Error(clearErr),
				logger.Component("auth"),
			)
		}
		return fmt.Errorf("failed to send reset email: %w", sendErr)
	}

	s.log.InfoContext(ctx, "password reset requested",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)

	return nil
}

// CompletePasswordReset consumes a reset secret and sets a new password. The
// lookup-and-update is a single atomic storage operation, so a token can be
// consumed at most once even under concurrent requests.
func (s *Service) CompletePasswordReset(ctx context.Context, secret, newPassword, newPasswordConfirm string) (*User, error) {
	if err := validator.Apply(
		validator.MinLenString("password", newPassword, passwordMinLen),
		validator.MaxLenString("password", newPassword, passwordMaxLen),
		validator.EqualStrings("passwordConfirm", newPassword, newPasswordConfirm),
	); err != nil {
		return nil, err
	}

	if secret == "" {
		return nil, ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	digest := sha256.Sum256([]byte(secret))
	changedAt := time.Now().Add(-time.Second)

	user, err := s.storage.CompleteReset(ctx, hex.EncodeToString(digest[:]), hash, changedAt)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "password reset completed",
		logger.UserID(user.ID),
		logger.Component("auth"),
	)

	return user, nil
}

// newResetSecret returns the plaintext secret to mail out and the sha256 hex
// digest to persist.
func newResetSecret() (secret, tokenHash string, err error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	secret = hex.EncodeToString(buf)
	digest := sha256.Sum256([]byte(secret))
	return secret, hex.EncodeToString(digest[:]), nil
}

func resetEmailBody(username, resetURL string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Forgot your password? Follow the link below to set a new one. The link is
valid for 10 minutes.</p>
<p><a href=%q>Reset my password</a></p>
<p>If you didn't request a password reset, you can safely ignore this email.</p>`,
		username, resetURL)
}

package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/inkwell/modules/auth"
	"github.com/dmitrymomot/inkwell/pkg/email"
)

// memStorage is an in-memory auth.Storage for tests.
type memStorage struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemStorage() *memStorage {
	return &memStorage{users: make(map[string]*auth.User)}
}

func (m *memStorage) CreateUser(ctx context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return auth.ErrEmailAlreadyExists
		}
	}

	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStorage) GetUserByID(ctx context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStorage) GetUserByEmail(ctx context.Context, emailAddr string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == emailAddr {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memStorage) UpdatePassword(ctx context.Context, id string, hash []byte, changedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = changedAt
	return nil
}

func (m *memStorage) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiresAt = expiresAt
	return nil
}

func (m *memStorage) ClearResetToken(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = time.Time{}
	return nil
}

func (m *memStorage) CompleteReset(ctx context.Context, tokenHash string, hash []byte, changedAt time.Time) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ResetTokenHash == tokenHash && time.Now().Before(u.ResetTokenExpiresAt) {
			u.PasswordHash = hash
			u.PasswordChangedAt = changedAt
			u.ResetTokenHash = ""
			u.ResetTokenExpiresAt = time.Time{}
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrInvalidResetToken
}

// expireResetToken backdates a pending reset so expiry paths can be tested
// without sleeping.
func (m *memStorage) expireResetToken(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		u.ResetTokenExpiresAt = time.Now().Add(-time.Minute)
	}
}

// rawUser returns the stored record without copy-on-read, for assertions on
// persisted state.
func (m *memStorage) rawUser(id string) *auth.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

// mockMailer records outbound emails and can simulate delivery failure.
type mockMailer struct {
	mu     sync.Mutex
	sent   []email.SendEmailParams
	broken bool
}

func (m *mockMailer) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.broken {
		return errors.Join(email.ErrFailedToSendEmail, errors.New("smtp down"))
	}
	m.sent = append(m.sent, params)
	return nil
}

func (m *mockMailer) lastEmail() (email.SendEmailParams, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return email.SendEmailParams{}, false
	}
	return m.sent[len(m.sent)-1], true
}

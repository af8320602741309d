package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"productdesk/internal/domain"
	sessionrepo "productdesk/internal/repository/session"
)

type sessionManager struct {
	repo sessionrepo.Repository
	now  func() time.Time
}

func newSessionManager(repo sessionrepo.Repository) *sessionManager {
	return &sessionManager{
		repo: repo,
		now:  time.Now,
	}
}

// Issue stores a fresh session under a random id, retrying on the unlikely
// id collision.
func (m *sessionManager) Issue(ctx context.Context, userID *int64, data domain.SessionData, ttl time.Duration) (*domain.Session, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < 5; i++ {
		id, err := randomSessionID()
		if err != nil {
			return nil, err
		}
		s := domain.Session{
			ID:        id,
			UserID:    userID,
			Data:      data,
			ExpiresAt: expiresAt,
		}
		err = m.repo.Create(ctx, s)
		if err == nil {
			return &s, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return nil, err
	}
	return nil, errors.New("session id collision")
}

// Validate returns the stored session when it exists and has not expired.
// Expired sessions are removed on sight.
func (m *sessionManager) Validate(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, ErrInvalidSession
	}
	s, err := m.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if m.now().After(s.ExpiresAt) {
		_ = m.repo.Delete(ctx, id)
		return nil, ErrInvalidSession
	}
	return s, nil
}

func randomSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

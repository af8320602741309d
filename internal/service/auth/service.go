package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"productdesk/internal/domain"
	sessionrepo "productdesk/internal/repository/session"
	userrepo "productdesk/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates the session id is unknown or expired.
	ErrInvalidSession = errors.New("invalid session")
)

// Service handles login, logout and server-side session state.
type Service struct {
	users       userrepo.Repository
	sessions    *sessionManager
	sessionTTL  time.Duration
	rememberTTL time.Duration
	passwordMin int
}

// New creates a Service. ttl <= 0 falls back to two hours.
func New(users userrepo.Repository, sessions sessionrepo.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Service{
		users:       users,
		sessions:    newSessionManager(sessions),
		sessionTTL:  ttl,
		rememberTTL: 30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if len(password) < s.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters", s.passwordMin)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	return s.users.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: string(hashed)})
}

// Login validates credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Start opens an anonymous session.
func (s *Service) Start(ctx context.Context) (*domain.Session, error) {
	return s.sessions.Issue(ctx, nil, domain.SessionData{}, s.sessionTTL)
}

// Load returns a live session or ErrInvalidSession.
func (s *Service) Load(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Validate(ctx, id)
}

// Save persists session changes.
func (s *Service) Save(ctx context.Context, sess *domain.Session) error {
	return s.sessions.repo.Save(ctx, *sess)
}

// Regenerate replaces old with a new session bound to userID, carrying the
// old payload over. The old id stops working immediately.
func (s *Service) Regenerate(ctx context.Context, old *domain.Session, userID *int64, remember bool) (*domain.Session, error) {
	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	var data domain.SessionData
	if old != nil {
		data = old.Data
	}
	fresh, err := s.sessions.Issue(ctx, userID, data, ttl)
	if err != nil {
		return nil, err
	}
	if old != nil {
		if err := s.sessions.repo.Delete(ctx, old.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return fresh, nil
}

// Destroy removes a session. Unknown ids are not an error.
func (s *Service) Destroy(ctx context.Context, id string) error {
	if err := s.sessions.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// CurrentUser resolves the user bound to sess. It returns nil without error
// for guest sessions and for users that no longer exist.
func (s *Service) CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	if sess == nil || sess.UserID == nil {
		return nil, nil
	}
	u, err := s.users.GetByID(ctx, *sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// Prune deletes expired sessions.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	return s.sessions.repo.DeleteExpired(ctx, s.sessions.now())
}

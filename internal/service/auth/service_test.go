package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/domain"
)

// memoryUserRepo is a lightweight in-memory user repository for tests.
type memoryUserRepo struct {
	byEmail map[string]domain.User
	nextID  int64
}

type memorySessionRepo struct {
	sessions map[string]domain.Session
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]domain.User)}
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	r.nextID++
	clone := u
	clone.ID = r.nextID
	r.byEmail[u.Email] = clone
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memorySessionRepo) Create(_ context.Context, s domain.Session) error {
	if _, exists := r.sessions[s.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memorySessionRepo) Save(_ context.Context, s domain.Session) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func TestService_RegisterAndLogin(t *testing.T) {
	users := newMemoryUserRepo()
	svc := New(users, newMemorySessionRepo(), time.Hour)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Admin", " Admin@Example.com ", "Password1")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.NotEqual(t, "Password1", u.PasswordHash)

	got, err := svc.Login(ctx, "ADMIN@example.com", "Password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "Password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterRejectsShortPassword(t *testing.T) {
	svc := New(newMemoryUserRepo(), newMemorySessionRepo(), time.Hour)
	_, err := svc.Register(context.Background(), "x", "x@example.com", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8")
}

func TestService_SessionLifecycle(t *testing.T) {
	users := newMemoryUserRepo()
	sessions := newMemorySessionRepo()
	svc := New(users, sessions, time.Hour)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Admin", "admin@example.com", "Password1")
	require.NoError(t, err)

	guest, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Nil(t, guest.UserID)

	current, err := svc.CurrentUser(ctx, guest)
	require.NoError(t, err)
	assert.Nil(t, current)

	guest.Data.Intended = "/products/new"
	require.NoError(t, svc.Save(ctx, guest))

	authed, err := svc.Regenerate(ctx, guest, &u.ID, false)
	require.NoError(t, err)
	assert.NotEqual(t, guest.ID, authed.ID)
	assert.Equal(t, "/products/new", authed.Data.Intended)

	_, err = svc.Load(ctx, guest.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)

	loaded, err := svc.Load(ctx, authed.ID)
	require.NoError(t, err)
	current, err = svc.CurrentUser(ctx, loaded)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, u.ID, current.ID)

	require.NoError(t, svc.Destroy(ctx, authed.ID))
	require.NoError(t, svc.Destroy(ctx, authed.ID))
	_, err = svc.Load(ctx, authed.ID)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestService_ExpiredSessionIsRemoved(t *testing.T) {
	sessions := newMemorySessionRepo()
	svc := New(newMemoryUserRepo(), sessions, time.Hour)
	ctx := context.Background()

	s, err := svc.Start(ctx)
	require.NoError(t, err)

	svc.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Load(ctx, s.ID)
	assert.True(t, errors.Is(err, ErrInvalidSession))
	assert.Empty(t, sessions.sessions)
}

func TestService_Prune(t *testing.T) {
	sessions := newMemorySessionRepo()
	svc := New(newMemoryUserRepo(), sessions, time.Minute)
	ctx := context.Background()

	_, err := svc.Start(ctx)
	require.NoError(t, err)

	svc.sessions.now = func() time.Time { return time.Now().Add(time.Hour) }
	n, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

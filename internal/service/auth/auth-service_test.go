package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/entity"
	"shopbot/internal/config"
)

type fakeRepo struct {
	Repository
	users    map[int64]*entity.User
	profiles map[int64]*entity.UserProfile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[int64]*entity.User),
		profiles: make(map[int64]*entity.UserProfile),
	}
}

func (r *fakeRepo) UpsertUser(_ context.Context, user *entity.User) error {
	if existing, ok := r.users[user.UserID]; ok {
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		return nil
	}
	r.users[user.UserID] = user
	return nil
}

func (r *fakeRepo) GetUser(_ context.Context, userID int64) (*entity.User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, errNotFound
}

func (r *fakeRepo) SetAdmin(_ context.Context, userID int64, isAdmin bool) error {
	u, ok := r.users[userID]
	if !ok {
		return errNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (r *fakeRepo) CreateProfile(_ context.Context, profile *entity.UserProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeRepo) IsRegistered(_ context.Context, userID int64) (bool, error) {
	_, ok := r.profiles[userID]
	return ok, nil
}

var errNotFound = assert.AnError

func newTestService(repo Repository, superAdmin int64, adminIDs ...int64) *Service {
	conf := &config.Config{}
	conf.Telegram.SuperAdminId = superAdmin
	conf.Telegram.AdminIds = adminIDs
	return NewAuthService(repo, conf, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIsAdminSources(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo, 100, 200)
	ctx := context.Background()

	require.NoError(t, s.EnsureUser(ctx, 300, "flagged", "Flagged"))
	require.NoError(t, repo.SetAdmin(ctx, 300, true))
	require.NoError(t, s.EnsureUser(ctx, 400, "plain", "Plain"))

	assert.True(t, s.IsAdmin(ctx, 100), "super admin")
	assert.True(t, s.IsAdmin(ctx, 200), "configured id")
	assert.True(t, s.IsAdmin(ctx, 300), "runtime flag")
	assert.False(t, s.IsAdmin(ctx, 400))
	assert.False(t, s.IsAdmin(ctx, 999), "unknown user")

	assert.True(t, s.IsSuperAdmin(100))
	assert.False(t, s.IsSuperAdmin(200), "configured admins are not super admins")
}

func TestGrantAdminRequiresSuperAdmin(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo, 100)
	ctx := context.Background()

	require.NoError(t, s.EnsureUser(ctx, 2, "target", "Target"))

	err := s.GrantAdmin(ctx, 2, 2, true)
	require.ErrorIs(t, err, ErrNotAllowed)

	require.NoError(t, s.GrantAdmin(ctx, 100, 2, true))
	assert.True(t, s.IsAdmin(ctx, 2))
}

func TestRegisterValidatesProfile(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(repo, 0)
	ctx := context.Background()

	err := s.Register(ctx, &entity.UserProfile{UserID: 1, Name: "X"})
	require.Error(t, err, "invalid profile never reaches storage")
	assert.Empty(t, repo.profiles)

	require.NoError(t, s.Register(ctx, &entity.UserProfile{
		UserID:      1,
		Name:        "Ann",
		PhoneNumber: "+12345678901",
	}))

	registered, err := s.IsRegistered(ctx, 1)
	require.NoError(t, err)
	assert.True(t, registered)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbot/entity"
)

func TestUpsertUserRefreshesIdentityOnly(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertUser(ctx, entity.NewUser(1, "old", "Old")))
	require.NoError(t, s.UpdateLanguage(ctx, 1, entity.LangRU))
	require.NoError(t, s.UpdateNotifications(ctx, 1, false))

	require.NoError(t, s.UpsertUser(ctx, entity.NewUser(1, "new", "New")))

	user, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", user.Username)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, entity.LangRU, user.Language, "preferences survive re-contact")
	assert.False(t, user.Notifications)
}

func TestRegistrationPredicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)

	registered, err := s.IsRegistered(ctx, 1)
	require.NoError(t, err)
	assert.False(t, registered)

	profile := &entity.UserProfile{
		UserID:      1,
		Name:        "Tester",
		PhoneNumber: "+12345678901",
	}
	require.NoError(t, s.CreateProfile(ctx, profile))

	registered, err = s.IsRegistered(ctx, 1)
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestCreateProfileTwice(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)
	profile := &entity.UserProfile{UserID: 1, Name: "Tester", PhoneNumber: "+12345678901"}
	require.NoError(t, s.CreateProfile(ctx, profile))

	err := s.CreateProfile(ctx, &entity.UserProfile{UserID: 1, Name: "Again", PhoneNumber: "+10987654321"})
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	got, err := s.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tester", got.Name, "registration must not overwrite an existing profile")
}

func TestPerFieldProfileUpdates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)
	require.NoError(t, s.CreateProfile(ctx, &entity.UserProfile{UserID: 1, Name: "Tester", PhoneNumber: "+12345678901"}))

	require.NoError(t, s.UpdateProfileName(ctx, 1, "Renamed"))
	require.NoError(t, s.UpdateProfileEmail(ctx, 1, "t@example.com"))
	require.NoError(t, s.UpdateProfileAge(ctx, 1, 33))
	require.NoError(t, s.UpdateProfileLocation(ctx, 1, 50.45, 30.52))

	got, err := s.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "t@example.com", got.Email)
	assert.Equal(t, 33, got.Age)
	require.True(t, got.HasLocation())
	assert.InDelta(t, 50.45, *got.LocationLat, 0.0001)

	err = s.UpdateProfileName(ctx, 2, "Ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdminFlag(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	seedUser(t, s, 1)
	seedUser(t, s, 2)

	require.NoError(t, s.SetAdmin(ctx, 2, true))

	admins, err := s.GetAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.EqualValues(t, 2, admins[0].UserID)

	err = s.SetAdmin(ctx, 999, true)
	require.ErrorIs(t, err, ErrNotFound)
}

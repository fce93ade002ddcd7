package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidate(t *testing.T) {
	profile := &UserProfile{
		UserID:      1,
		Name:        "Ann",
		PhoneNumber: "+12345678901",
		Email:       "ann@example.com",
		Age:         30,
	}
	require.NoError(t, profile.Validate())

	profile.Email = "" // optional
	require.NoError(t, profile.Validate())

	profile.Name = "A"
	assert.Error(t, profile.Validate(), "name needs at least two characters")

	profile = &UserProfile{UserID: 1, Name: "Ann", PhoneNumber: "+12345678901", Email: "not-an-email"}
	assert.Error(t, profile.Validate())

	profile = &UserProfile{UserID: 1, Name: "Ann"}
	assert.Error(t, profile.Validate(), "phone is required")
}

func TestHasLocation(t *testing.T) {
	p := &UserProfile{}
	assert.False(t, p.HasLocation())

	lat, lon := 50.45, 30.52
	p.LocationLat = &lat
	assert.False(t, p.HasLocation(), "both coordinates are needed")

	p.LocationLon = &lon
	assert.True(t, p.HasLocation())
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser(1, "ann", "Ann")
	assert.Equal(t, LangEN, u.Language)
	assert.True(t, u.Notifications)
	assert.False(t, u.IsAdmin)
}

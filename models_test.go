package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/lodgekit/auth"
	"github.com/stretchr/testify/assert"
)

func TestUserSerializationRedactsHash(t *testing.T) {
	user := newUser("guest@example.com")
	user.ID = 1
	user.EnsureDefaults()

	raw, err := json.Marshal(user)
	assert.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, "guest@example.com")
	assert.Contains(t, body, auth.DefaultProfileImage)
	assert.NotContains(t, body, user.PasswordHash)
	assert.NotContains(t, body, "password")
}

func TestUserEnsureDefaults(t *testing.T) {
	user := newUser("guest@example.com")
	assert.Empty(t, user.ProfileImage)

	user.EnsureDefaults()
	assert.Equal(t, auth.DefaultProfileImage, user.ProfileImage)
	assert.False(t, user.CreatedAt.IsZero())

	// Existing values are left alone.
	user.ProfileImage = "https://example.com/me.png"
	user.EnsureDefaults()
	assert.Equal(t, "https://example.com/me.png", user.ProfileImage)
}

func TestUserClone(t *testing.T) {
	user := newUser("guest@example.com")
	user.ID = 9

	copied := user.Clone()
	copied.Email = "other@example.com"

	assert.Equal(t, "guest@example.com", user.Email)
	assert.Equal(t, int64(9), copied.ID)

	var nilUser *auth.User
	assert.Nil(t, nilUser.Clone())
}

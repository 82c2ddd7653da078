package auth_test

import (
	"testing"

	"github.com/lodgekit/auth"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherHash(t *testing.T) {
	hasher := auth.NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.True(t, hasher.Verify(tt.password, hash))
		})
	}
}

func TestHasherSaltRandomization(t *testing.T) {
	hasher := auth.NewHasher(bcrypt.MinCost)

	hash1, err := hasher.Hash("samePassword1!")
	assert.NoError(t, err)
	hash2, err := hasher.Hash("samePassword1!")
	assert.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, hasher.Verify("samePassword1!", hash1))
	assert.True(t, hasher.Verify("samePassword1!", hash2))
}

func TestHasherVerify(t *testing.T) {
	hasher := auth.NewHasher(bcrypt.MinCost)

	password := "testPassword123!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{
			name:     "Matching password",
			password: password,
			hash:     hash,
			want:     true,
		},
		{
			name:     "Wrong password",
			password: "wrongPassword",
			hash:     hash,
			want:     false,
		},
		{
			name:     "Malformed hash verifies false, never panics",
			password: password,
			hash:     "invalidhash",
			want:     false,
		},
		{
			name:     "Empty hash",
			password: password,
			hash:     "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.password, tt.hash))
		})
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, auth.NewHasher(1).Cost)
	assert.Equal(t, bcrypt.MaxCost, auth.NewHasher(99).Cost)
	assert.Greater(t, auth.NewHasher(0).Cost, 0)
}

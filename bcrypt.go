package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. The zero value uses the
// build's default cost (see bcrypt_cost.go).
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given cost, clamped into bcrypt's
// accepted range. A cost <= 0 selects the build default.
func NewHasher(cost int) Hasher {
	if cost <= 0 {
		cost = passwordHashCost()
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return Hasher{Cost: cost}
}

// Hash generates a salted password hash. Hashing the same password twice
// yields different outputs because bcrypt embeds a random salt.
func (h Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.Cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", NewStorageError(err, "failed to hash password")
	}
	return string(out), nil
}

// Verify reports whether the cleartext password matches the hash. Malformed
// hashes verify as false rather than erroring; bcrypt's comparison does not
// leak timing about how close the password was.
func (h Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var _ CredentialHasher = Hasher{}

// HashPassword will generate a password hash using the default cost.
func HashPassword(password string) (string, error) {
	return Hasher{}.Hash(password)
}

// VerifyPassword will validate the given cleartext password against the
// hashed password.
func VerifyPassword(password, hash string) bool {
	return Hasher{}.Verify(password, hash)
}

package auth

import (
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenExpiration matches the 3 day cookie lifetime set by the
// calling layer.
const DefaultTokenExpiration = 72

// DefaultCookieName is the cookie the outer layer stores the token in.
const DefaultCookieName = "access-token"

// EnvConfig reads auth options from the environment. The signing key has no
// default: NewEnvConfig fails when AUTH_SIGNING_KEY is absent so we never
// sign tokens with an empty secret.
type EnvConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	CookieName      string
	BcryptCost      int
}

// NewEnvConfig builds an EnvConfig from AUTH_* environment variables.
func NewEnvConfig() (*EnvConfig, error) {
	key := os.Getenv("AUTH_SIGNING_KEY")
	if key == "" {
		return nil, ErrMissingSigningKey
	}

	cfg := &EnvConfig{
		SigningKey:      key,
		TokenExpiration: DefaultTokenExpiration,
		Issuer:          os.Getenv("AUTH_ISSUER"),
		CookieName:      DefaultCookieName,
		BcryptCost:      passwordHashCost(),
	}

	if v := os.Getenv("AUTH_TOKEN_EXPIRATION"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewValidationError("AUTH_TOKEN_EXPIRATION must be an integer hour count", TextCodeInvalidConfig, map[string]any{
				"value": v,
			})
		}
		cfg.TokenExpiration = hours
	}

	if v := os.Getenv("AUTH_COOKIE_NAME"); v != "" {
		cfg.CookieName = v
	}

	if v := os.Getenv("AUTH_BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, NewValidationError("AUTH_BCRYPT_COST is out of range", TextCodeInvalidConfig, map[string]any{
				"value": v,
			})
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string   { return c.SigningKey }
func (c *EnvConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *EnvConfig) GetIssuer() string       { return c.Issuer }
func (c *EnvConfig) GetCookieName() string   { return c.CookieName }
func (c *EnvConfig) GetBcryptCost() int      { return c.BcryptCost }

var _ Config = (*EnvConfig)(nil)

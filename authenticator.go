package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// storageTimeout bounds every store call made by the orchestrator; expiry
// surfaces as a storage error the caller may retry with backoff.
const storageTimeout = 10 * time.Second

// SignupInput is the raw signup request. Birthday arrives as the wire
// string (RFC 3339 or 2006-01-02) and is validated here, not by the caller.
type SignupInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Password  string `json:"password"`
	Birthday  string `json:"birthday"`
}

// AuthResult pairs the account record with a freshly issued session token.
// The record never serializes its password hash.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"-"`
}

// Auther composes the password policy, user store, credential hasher and
// token service into the Signup and Login operations.
type Auther struct {
	store  UserStore
	hasher CredentialHasher
	tokens TokenIssuer
	logger Logger
}

// NewAuthenticator returns a new Authenticator. It fails when the signing
// secret is missing so tokens are never issued with an empty key.
func NewAuthenticator(store UserStore, cfg Config) (*Auther, error) {
	tokens, err := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		store:  store,
		hasher: NewHasher(cfg.GetBcryptCost()),
		tokens: tokens,
		logger: defLogger{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithHasher overrides the credential hasher (tests lower the cost).
func (s *Auther) WithHasher(hasher CredentialHasher) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithTokenIssuer overrides the token service.
func (s *Auther) WithTokenIssuer(tokens TokenIssuer) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// Signup validates the input, enforces the password policy and email
// uniqueness, persists the new record and issues a session token. Every
// failure is terminal: no record and no token survive a failed call.
func (s *Auther) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if err := checkRequiredSignupFields(input); err != nil {
		return nil, err
	}

	birthday, err := parseBirthday(input.Birthday)
	if err != nil {
		return nil, err
	}

	if result := ValidatePassword(input.Password, input.Email, input.LastName); !result.Valid() {
		return nil, NewValidationError("password does not satisfy the policy", TextCodeWeakPassword, map[string]any{
			"rules": result.Failed(),
			"hints": result.Hints(),
		})
	}

	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	// Early duplicate check for a friendly error; the store re-checks under
	// its write lock, so racing signups still resolve to one winner.
	exists, err := s.store.Exists(storeCtx, input.Email)
	if err != nil {
		s.logger.Error("signup uniqueness check failed: %s", err)
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// Hashing is CPU-bound; it happens before any store lock is taken.
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("signup password hash failed: %s", err)
		return nil, err
	}

	record := &User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Birthday:     birthday,
	}

	created, err := s.store.Append(storeCtx, record)
	if err != nil {
		if IsConflict(err) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("signup persistence failed for %s: %s", input.Email, err)
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		s.logger.Error("signup token issuance failed for user %d: %s", created.ID, err)
		return nil, err
	}

	s.logger.Info("user %d registered", created.ID)

	return &AuthResult{User: created, Token: token}, nil
}

// Login verifies the credentials and issues a session token. Unknown emails
// and wrong passwords return the same error so callers can't tell them
// apart.
func (s *Auther) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("email and password are required", TextCodeMissingField, missingFields(map[string]string{
			"email":    email,
			"password": password,
		}))
	}

	storeCtx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	user, err := s.store.FindByEmail(storeCtx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed: %s", err)
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("login token issuance failed for user %d: %s", user.ID, err)
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// SessionFromToken validates a raw token and maps it to a session.
func (s *Auther) SessionFromToken(raw string) (*SessionObject, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}
	return sessionFromClaims(claims)
}

var _ Authenticator = (*Auther)(nil)

func checkRequiredSignupFields(input SignupInput) error {
	fields := missingFields(map[string]string{
		"email":     input.Email,
		"firstname": input.FirstName,
		"lastname":  input.LastName,
		"password":  input.Password,
		"birthday":  input.Birthday,
	})

	if len(fields) > 0 {
		return NewValidationError("missing required fields", TextCodeMissingField, fields)
	}
	return nil
}

func missingFields(values map[string]string) map[string]any {
	out := map[string]any{}
	for name, value := range values {
		if value == "" {
			out[name] = "required"
		}
	}
	return out
}

// parseBirthday accepts the formats the clients send: full RFC 3339
// timestamps and bare dates. Both reject impossible calendar dates.
func parseBirthday(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewValidationError("birthday is not a valid date", TextCodeInvalidBirthday, map[string]any{
		"birthday": value,
	})
}

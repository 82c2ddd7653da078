package auth_test

import (
	"context"

	"github.com/lodgekit/auth"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*auth.User)
	return records, args.Error(1)
}

func (m *MockUserStore) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	record, _ := args.Get(0).(*auth.User)
	return record, args.Error(1)
}

func (m *MockUserStore) Append(ctx context.Context, record *auth.User) (*auth.User, error) {
	args := m.Called(ctx, record)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

// testConfig is the Config used across the suites: real signing key, fast
// bcrypt cost.
func testConfig() *auth.EnvConfig {
	return &auth.EnvConfig{
		SigningKey:      "test-signing-key-for-suites",
		TokenExpiration: 72,
		Issuer:          "lodgekit-test",
		CookieName:      auth.DefaultCookieName,
		BcryptCost:      4,
	}
}

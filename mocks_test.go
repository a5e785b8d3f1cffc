package accounts_test

import (
	"context"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockUsers implements accounts.Users
type MockUsers struct {
	mock.Mock
}

var _ accounts.Users = (*MockUsers)(nil)

func (m *MockUsers) user(args mock.Arguments) (*accounts.User, error) {
	if u, ok := args.Get(0).(*accounts.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id int64) (*accounts.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUsers) FindByUsername(ctx context.Context, username string) (*accounts.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUsers) FindByToken(ctx context.Context, token string) (*accounts.User, error) {
	return m.user(m.Called(ctx, token))
}

func (m *MockUsers) List(ctx context.Context) ([]*accounts.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*accounts.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) Insert(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	return m.user(m.Called(ctx, user))
}

func (m *MockUsers) Update(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	return m.user(m.Called(ctx, user))
}

// MockLogger implements accounts.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.Called(msg, args)
}

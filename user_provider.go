package accounts

import (
	"context"
	"errors"
	"fmt"
)

// UserProvider verifies username and password pairs against the store
type UserProvider struct {
	store  Users
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = ensureLogger(l)
	return u
}

// VerifyCredentials returns the user owning username if password matches.
// An unknown username and a wrong password fail with the same
// WrongCredentials error and cost one bcrypt comparison each.
func (u *UserProvider) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		burnPasswordCheck(password)
		return nil, NewError(KindWrongCredentials)
	}

	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		if IsUserNotFound(err) {
			burnPasswordCheck(password)
			return nil, NewError(KindWrongCredentials)
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			u.logger.Debug("password mismatch", "user_id", user.ID)
			return nil, NewError(KindWrongCredentials)
		}
		return nil, fmt.Errorf("compare password for user %d: %w", user.ID, err)
	}

	return user, nil
}

package accounts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// DefaultTokenExpiration is the lifetime of a freshly issued bearer token
	DefaultTokenExpiration = time.Hour
	// TokenReuseWindow is how long a token must still be valid to be handed out again
	TokenReuseWindow = 60 * time.Second
	// tokenEntropy is the number of random bytes behind a token
	tokenEntropy = 24
)

// TokenService issues, revokes and resolves the opaque bearer tokens stored
// on the user row.
type TokenService struct {
	users      Users
	expiration time.Duration
	now        func() time.Time
	logger     Logger
}

// TokenServiceOption configures a TokenService
type TokenServiceOption func(*TokenService)

// WithTokenExpiration overrides the lifetime of new tokens
func WithTokenExpiration(d time.Duration) TokenServiceOption {
	return func(ts *TokenService) {
		if d > 0 {
			ts.expiration = d
		}
	}
}

// WithTokenClock replaces time.Now, used by tests
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(l Logger) TokenServiceOption {
	return func(ts *TokenService) {
		ts.logger = ensureLogger(l)
	}
}

// NewTokenService creates a new TokenService instance
func NewTokenService(users Users, opts ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		users:      users,
		expiration: DefaultTokenExpiration,
		now:        time.Now,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// Issue returns the user's token. A token still valid for more than
// TokenReuseWindow is returned unchanged; otherwise a new one is generated
// and persisted with an absolute expiration.
func (ts *TokenService) Issue(ctx context.Context, user *User) (string, error) {
	now := ts.now().UTC()

	if user.HasValidToken(now.Add(TokenReuseWindow)) {
		return user.Token, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiration := now.Add(ts.expiration)
	user.Token = token
	user.TokenExpiration = &expiration

	if _, err := ts.users.Update(ctx, user); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}

	ts.logger.Debug("token issued", "user_id", user.ID, "expires_at", expiration)

	return token, nil
}

// Revoke expires the user's token without clearing it
func (ts *TokenService) Revoke(ctx context.Context, user *User) error {
	expiration := ts.now().UTC().Add(-time.Second)
	user.TokenExpiration = &expiration

	if _, err := ts.users.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	ts.logger.Debug("token revoked", "user_id", user.ID)

	return nil
}

// Resolve finds the owner of token. Unknown and expired tokens both return
// ErrUserNotFound.
func (ts *TokenService) Resolve(ctx context.Context, token string) (*User, error) {
	user, err := ts.users.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if user.TokenExpiration != nil && user.TokenExpiration.Before(ts.now()) {
		return nil, fmt.Errorf("%w: token expired", ErrUserNotFound)
	}

	return user, nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

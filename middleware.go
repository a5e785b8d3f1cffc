package accounts

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	schemeBasic  = "Basic"
	schemeBearer = "Bearer"
)

// AuthedHandler is a handler that runs once the request is authenticated.
// The resolved user is passed in, it lives only for the current request.
type AuthedHandler func(c *fiber.Ctx, current *User) error

// Guard wraps handlers with one of the two credential schemes
type Guard struct {
	provider *UserProvider
	tokens   *TokenService
}

// NewGuard creates a guard resolving Basic credentials with provider and
// Bearer tokens with tokens
func NewGuard(provider *UserProvider, tokens *TokenService) *Guard {
	if provider == nil || tokens == nil {
		panic("accounts: guard needs a user provider and a token service")
	}
	return &Guard{provider: provider, tokens: tokens}
}

// Basic authenticates the request with HTTP Basic credentials. Missing,
// malformed and wrong credentials all fail with WrongCredentials.
func (g *Guard) Basic(next AuthedHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, password, ok := basicCredentials(c)
		if !ok {
			return NewError(KindWrongCredentials)
		}

		user, err := g.provider.VerifyCredentials(c.UserContext(), username, password)
		if err != nil {
			return err
		}

		recordUserID(c, user)
		return next(c, user)
	}
}

// Bearer authenticates the request with a bearer token. Missing, unknown,
// expired and revoked tokens all fail with InvalidToken.
func (g *Guard) Bearer(next AuthedHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := authorization(c, schemeBearer)
		if !ok || token == "" {
			return NewError(KindInvalidToken)
		}

		user, err := g.tokens.Resolve(c.UserContext(), token)
		if err != nil {
			if IsUserNotFound(err) {
				return NewError(KindInvalidToken)
			}
			return err
		}

		recordUserID(c, user)
		return next(c, user)
	}
}

// authorization returns the credentials of the Authorization header if it
// uses scheme
func authorization(c *fiber.Ctx, scheme string) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	prefix, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(prefix, scheme) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func basicCredentials(c *fiber.Ctx) (string, string, bool) {
	encoded, ok := authorization(c, schemeBasic)
	if !ok {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}

	username, password, found := strings.Cut(string(raw), ":")
	if !found {
		return "", "", false
	}

	return username, password, true
}

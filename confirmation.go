package accounts

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// DefaultConfirmationPurpose scopes confirmation links when no salt is configured
const DefaultConfirmationPurpose = "email-confirmation"

const confirmationKeyInfo = "accounts/confirmation-link"

// ConfirmationCodec signs an email address into the URL safe token used in
// confirmation links. The signing key is derived from the secret and the
// purpose, and the purpose is also the token audience, so a token minted for
// another purpose with the same secret never verifies here.
type ConfirmationCodec struct {
	key     []byte
	purpose string
	now     func() time.Time
}

// NewConfirmationCodec derives the signing key for purpose from secret
func NewConfirmationCodec(secret, purpose string) (*ConfirmationCodec, error) {
	if secret == "" {
		return nil, errors.New("confirmation codec needs a secret key")
	}

	if strings.TrimSpace(purpose) == "" {
		purpose = DefaultConfirmationPurpose
	}

	key := make([]byte, sha256.Size)
	kdf := hkdf.New(sha256.New, []byte(secret), []byte(purpose), []byte(confirmationKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive confirmation key: %w", err)
	}

	return &ConfirmationCodec{
		key:     key,
		purpose: purpose,
		now:     time.Now,
	}, nil
}

// Issue binds email into a signed token. The token has no expiration.
func (c *ConfirmationCodec) Issue(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  email,
		Audience: jwt.ClaimStrings{c.purpose},
		IssuedAt: jwt.NewNumericDate(c.now()),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign confirmation token: %w", err)
	}

	return signed, nil
}

// Resolve returns the email bound into token. Any signature, encoding or
// purpose mismatch fails with an InvalidLink error.
func (c *ConfirmationCodec) Resolve(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(c.purpose),
		jwt.WithStrictDecoding(),
	)

	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", NewError(KindInvalidLink)
	}

	return claims.Subject, nil
}

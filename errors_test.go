package accounts_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		kind    accounts.Kind
		name    string
		status  int
		code    int
		message string
	}{
		{accounts.KindAlreadyConfirmed, "AlreadyConfirmed", http.StatusBadRequest, 1000, "Email has already been confirmed."},
		{accounts.KindInvalidLink, "InvalidLink", http.StatusBadRequest, 1001, "Invalid link."},
		{accounts.KindInvalidToken, "InvalidToken", http.StatusBadRequest, 1002, "Invalid token."},
		{accounts.KindNotConfirmed, "NotConfirmed", http.StatusBadRequest, 1003, "Email not confirmed."},
		{accounts.KindWrongCredentials, "WrongCredentials", http.StatusBadRequest, 1004, "Wrong username or password."},
		{accounts.KindInsufficientRights, "InsufficientRights", http.StatusBadRequest, 1005, "Insufficient rights."},
		{accounts.KindNotFound, "NotFound", http.StatusNotFound, 1006, "Not found."},
		{accounts.KindInsufficientData, "InsufficientData", http.StatusBadRequest, 1007, "Insufficient data."},
		{accounts.KindNameUsed, "NameUsed", http.StatusBadRequest, 1008, "Please use a different username."},
		{accounts.KindEmailUsed, "EmailUsed", http.StatusBadRequest, 1009, "Please use a different email."},
	}

	assert.Len(t, accounts.Kinds, len(tests))
	texts := map[string]bool{}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, accounts.Kinds[i])
			assert.Equal(t, tt.name, tt.kind.String())
			assert.Equal(t, tt.status, tt.kind.Status())
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.Equal(t, tt.message, tt.kind.DefaultMessage())
			assert.NotEmpty(t, tt.kind.TextCode())
			assert.False(t, texts[tt.kind.TextCode()], "duplicate text code %s", tt.kind.TextCode())
			texts[tt.kind.TextCode()] = true
		})
	}
}

func TestKinds_UniqueCodes(t *testing.T) {
	seen := map[int]accounts.Kind{}
	for _, k := range accounts.Kinds {
		prev, dup := seen[k.Code()]
		assert.False(t, dup, "%s and %s share code %d", prev, k, k.Code())
		seen[k.Code()] = k
	}
}

func TestNewError(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		err := accounts.NewError(accounts.KindNotFound)
		assert.Equal(t, "Not found.", err.Message)
		assert.Equal(t, http.StatusNotFound, err.Code)
		assert.Equal(t, accounts.TextCodeNotFound, err.TextCode)
		assert.Equal(t, goerrors.CategoryNotFound, err.Category)
		assert.Equal(t, 1006, err.Metadata["code"])
	})

	t.Run("override message", func(t *testing.T) {
		err := accounts.NewError(accounts.KindNotFound, "User not found.")
		assert.Equal(t, "User not found.", err.Message)
		assert.Equal(t, accounts.TextCodeNotFound, err.TextCode)
	})

	t.Run("empty override keeps default", func(t *testing.T) {
		err := accounts.NewError(accounts.KindInvalidToken, "")
		assert.Equal(t, "Invalid token.", err.Message)
		assert.Equal(t, goerrors.CategoryAuth, err.Category)
	})

	t.Run("fresh value per call", func(t *testing.T) {
		first := accounts.NewError(accounts.KindNotFound, "User not found.")
		second := accounts.NewError(accounts.KindNotFound)
		assert.NotSame(t, first, second)
		assert.Equal(t, "Not found.", second.Message)
	})
}

func TestKindOf(t *testing.T) {
	for _, kind := range accounts.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			err := fmt.Errorf("handler: %w", accounts.NewError(kind))

			got, ok := accounts.KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, kind, got)
			assert.True(t, accounts.IsKind(err, kind))
		})
	}

	t.Run("not a domain error", func(t *testing.T) {
		for _, err := range []error{
			nil,
			errors.New("boom"),
			accounts.ErrUserNotFound,
			goerrors.New("failed to hash password", goerrors.CategoryInternal),
		} {
			_, ok := accounts.KindOf(err)
			assert.False(t, ok, "%v", err)
		}
	})

	assert.False(t, accounts.IsKind(accounts.NewError(accounts.KindNotFound), accounts.KindInvalidToken))
}

func TestIsUserNotFound(t *testing.T) {
	assert.True(t, accounts.IsUserNotFound(fmt.Errorf("%w: token", accounts.ErrUserNotFound)))
	assert.False(t, accounts.IsUserNotFound(accounts.NewError(accounts.KindNotFound)))
	assert.False(t, accounts.IsUserNotFound(nil))
}

package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("empty string is not allowed")

// ErrMismatchedHashAndPassword is returned when the password does not match the hash
var ErrMismatchedHashAndPassword = errors.New("password does not match hash")

// ErrUserNotFound is returned by Users lookups that match no row
var ErrUserNotFound = errors.New("user not found")

const (
	TextCodeAlreadyConfirmed   = "accounts_already_confirmed"
	TextCodeInvalidLink        = "accounts_invalid_link"
	TextCodeInvalidToken       = "accounts_invalid_token"
	TextCodeNotConfirmed       = "accounts_not_confirmed"
	TextCodeWrongCredentials   = "accounts_wrong_credentials"
	TextCodeInsufficientRights = "accounts_insufficient_rights"
	TextCodeNotFound           = "accounts_not_found"
	TextCodeInsufficientData   = "accounts_insufficient_data"
	TextCodeNameUsed           = "accounts_name_used"
	TextCodeEmailUsed          = "accounts_email_used"
)

// Kind is the closed set of domain failures a handler can report to a client.
type Kind int

const (
	KindAlreadyConfirmed Kind = iota + 1
	KindInvalidLink
	KindInvalidToken
	KindNotConfirmed
	KindWrongCredentials
	KindInsufficientRights
	KindNotFound
	KindInsufficientData
	KindNameUsed
	KindEmailUsed
)

// Kinds lists every domain error kind in code order.
var Kinds = []Kind{
	KindAlreadyConfirmed,
	KindInvalidLink,
	KindInvalidToken,
	KindNotConfirmed,
	KindWrongCredentials,
	KindInsufficientRights,
	KindNotFound,
	KindInsufficientData,
	KindNameUsed,
	KindEmailUsed,
}

const (
	// InternalErrorCode is the body code for any failure that is not a domain error
	InternalErrorCode = -1
	// InternalErrorMessage is the body message for any failure that is not a domain error
	InternalErrorMessage = "Internal error"
)

type kindInfo struct {
	name     string
	textCode string
	category goerrors.Category
	status   int
	code     int
	message  string
}

func (k Kind) info() kindInfo {
	switch k {
	case KindAlreadyConfirmed:
		return kindInfo{"AlreadyConfirmed", TextCodeAlreadyConfirmed, goerrors.CategoryBadInput, goerrors.CodeBadRequest, 1000, "Email has already been confirmed."}
	case KindInvalidLink:
		return kindInfo{"InvalidLink", TextCodeInvalidLink, goerrors.CategoryBadInput, goerrors.CodeBadRequest, 1001, "Invalid link."}
	case KindInvalidToken:
		return kindInfo{"InvalidToken", TextCodeInvalidToken, goerrors.CategoryAuth, goerrors.CodeBadRequest, 1002, "Invalid token."}
	case KindNotConfirmed:
		return kindInfo{"NotConfirmed", TextCodeNotConfirmed, goerrors.CategoryAuth, goerrors.CodeBadRequest, 1003, "Email not confirmed."}
	case KindWrongCredentials:
		return kindInfo{"WrongCredentials", TextCodeWrongCredentials, goerrors.CategoryAuth, goerrors.CodeBadRequest, 1004, "Wrong username or password."}
	case KindInsufficientRights:
		return kindInfo{"InsufficientRights", TextCodeInsufficientRights, goerrors.CategoryAuthz, goerrors.CodeBadRequest, 1005, "Insufficient rights."}
	case KindNotFound:
		return kindInfo{"NotFound", TextCodeNotFound, goerrors.CategoryNotFound, goerrors.CodeNotFound, 1006, "Not found."}
	case KindInsufficientData:
		return kindInfo{"InsufficientData", TextCodeInsufficientData, goerrors.CategoryBadInput, goerrors.CodeBadRequest, 1007, "Insufficient data."}
	case KindNameUsed:
		return kindInfo{"NameUsed", TextCodeNameUsed, goerrors.CategoryConflict, goerrors.CodeBadRequest, 1008, "Please use a different username."}
	case KindEmailUsed:
		return kindInfo{"EmailUsed", TextCodeEmailUsed, goerrors.CategoryConflict, goerrors.CodeBadRequest, 1009, "Please use a different email."}
	default:
		return kindInfo{"Unknown", "", goerrors.CategoryInternal, goerrors.CodeInternal, InternalErrorCode, InternalErrorMessage}
	}
}

// String returns the kind name
func (k Kind) String() string { return k.info().name }

// TextCode identifies the kind on a *goerrors.Error
func (k Kind) TextCode() string { return k.info().textCode }

// Category is the go-errors category the kind is raised with
func (k Kind) Category() goerrors.Category { return k.info().category }

// Status is the HTTP status the kind is rendered with
func (k Kind) Status() int { return k.info().status }

// Code is the machine readable code clients branch on
func (k Kind) Code() int { return k.info().code }

// DefaultMessage is used when the raise site gives no message
func (k Kind) DefaultMessage() string { return k.info().message }

// NewError builds a domain error of kind, message is optional. The HTTP
// status goes in Code, the kind in TextCode and the client code in Metadata.
func NewError(kind Kind, message ...string) *goerrors.Error {
	msg := kind.DefaultMessage()
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}

	return goerrors.New(msg, kind.Category()).
		WithCode(kind.Status()).
		WithTextCode(kind.TextCode()).
		WithMetadata(map[string]any{"code": kind.Code()})
}

// KindOf returns the domain kind carried by err, if any
func KindOf(err error) (Kind, bool) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr == nil {
		return 0, false
	}

	for _, k := range Kinds {
		if k.TextCode() == richErr.TextCode {
			return k, true
		}
	}

	return 0, false
}

// IsKind reports whether err is a domain error of kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsUserNotFound reports whether err is a store miss
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

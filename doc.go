// Package accounts provides a small user registration and authentication
// service: bcrypt password storage, opaque bearer tokens persisted on the user
// row, signed email confirmation links and the fiber handlers that expose them.
//
// Users:
//   - User is the only model, persisted via Bun. Username and email uniqueness
//     is checked before writes, not enforced by the database, so two concurrent
//     registrations can still collide.
//   - Users is the narrow repository handlers talk to. Lookups return
//     ErrUserNotFound when no row matches.
//
// Tokens:
//   - TokenService issues one bearer token per user. A token that is still valid
//     for more than a minute is handed out again instead of rotated, and a
//     revoked token keeps its value with an expiration in the past.
//   - ConfirmationCodec signs an email address for the confirmation link. The
//     link carries no expiration.
//
// Errors:
//   - Handlers return go-errors values built by NewError from a closed set of
//     kinds. The fiber ErrorHandler renders them as {message, code}; any other
//     error becomes an opaque 500 with code -1.
package accounts

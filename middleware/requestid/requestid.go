// Package requestid tags every request with a stable X-Request-ID.
package requestid

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header read from the client and echoed on the response
const HeaderName = "X-Request-ID"

// LocalsKey is where the id is stored on the fiber context
const LocalsKey = "request_id"

type contextKey struct{}

// New returns a middleware that propagates the client's request id or
// generates a new UUIDv4. The id is set on the response header, stored in the
// fiber locals and attached to the request's user context.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(HeaderName, id)
		c.Locals(LocalsKey, id)
		c.SetUserContext(WithContext(c.UserContext(), id))

		return c.Next()
	}
}

// WithContext stores the request id in ctx
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request id stored in ctx, or an empty string
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Package accesslog writes one structured log line per request.
package accesslog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts/middleware/requestid"
)

// Logger mirrors the accounts Logger without importing it
type Logger interface {
	Info(msg string, args ...any)
}

// Config for the access log middleware
type Config struct {
	Logger Logger
	// UserIDLocal names the fiber local holding the authenticated user id, if any.
	UserIDLocal string
	// Skip excludes requests from the log.
	Skip func(c *fiber.Ctx) bool
}

// New returns the access log middleware. Request and response bodies are
// never written: they carry passwords and tokens.
//
// Handler errors are rendered here through the app ErrorHandler and are not
// passed up: middleware registered before this one sees a nil error and an
// already written response. It must be the outermost middleware that
// inspects or renders errors.
func New(cfg Config) fiber.Handler {
	if cfg.Logger == nil {
		panic("accesslog: Logger is required")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		// render errors here so the logged status is the one sent
		if err != nil {
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", float64(time.Since(start)) / float64(time.Millisecond),
			"ip", c.IP(),
			"request_id", requestid.FromContext(c.UserContext()),
		}

		if cfg.UserIDLocal != "" {
			if uid := c.Locals(cfg.UserIDLocal); uid != nil {
				args = append(args, "user_id", uid)
			}
		}

		cfg.Logger.Info("request", args...)
		return nil
	}
}

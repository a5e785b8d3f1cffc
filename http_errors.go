package accounts

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts/middleware/requestid"
	goerrors "github.com/goliatone/go-errors"
)

// ErrorResponse is the envelope every failure is rendered with
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorHandler renders handler errors for fiber.Config.ErrorHandler.
//
// Domain errors use the status in their Code and the client code of their
// kind. Unmatched routes and unsupported methods reuse the HTTP status as the
// body code. Everything else, including go-errors without a domain kind, is
// collapsed into a 500 with code -1 and never reaches the client verbatim.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = ensureLogger(logger)

	return func(c *fiber.Ctx, err error) error {
		reqID := requestid.FromContext(c.UserContext())

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr != nil {
			if kind, ok := KindOf(richErr); ok {
				logger.Info("request rejected",
					"kind", kind.String(),
					"text_code", richErr.TextCode,
					"category", richErr.Category,
					"code", kind.Code(),
					"path", c.Path(),
					"request_id", reqID,
				)
				return c.Status(richErr.Code).JSON(ErrorResponse{
					Message: richErr.Message,
					Code:    kind.Code(),
				})
			}
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch fiberErr.Code {
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				return c.Status(fiberErr.Code).JSON(ErrorResponse{
					Message: http.StatusText(fiberErr.Code),
					Code:    fiberErr.Code,
				})
			}
		}

		logger.Error("unexpected error",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", reqID,
		)

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: InternalErrorMessage,
			Code:    InternalErrorCode,
		})
	}
}

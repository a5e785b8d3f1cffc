package accounts

import "github.com/gofiber/fiber/v2"

// Codes used by the root /confirm route. They predate the API taxonomy and
// are kept as they are for links already sent out.
const (
	LegacyCodeAlreadyConfirmed = 101
	LegacyCodeInvalidLink      = 102
)

// LegacyConfirm is the confirmation route outside /api. It always answers
// 200 and reports failures with its own codes.
func (a *Controller) LegacyConfirm(c *fiber.Ctx) error {
	err := a.confirm(c.UserContext(), c.Params("token"))

	switch {
	case err == nil:
		return c.JSON(MessageResponse{Message: "Email confirmed"})
	case IsKind(err, KindInvalidLink):
		return c.JSON(MessageResponse{
			Message: KindInvalidLink.DefaultMessage(),
			Code:    LegacyCodeInvalidLink,
		})
	case IsKind(err, KindAlreadyConfirmed):
		return c.JSON(MessageResponse{
			Message: KindAlreadyConfirmed.DefaultMessage(),
			Code:    LegacyCodeAlreadyConfirmed,
		})
	default:
		return err
	}
}

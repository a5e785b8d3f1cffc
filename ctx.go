package accounts

import "github.com/gofiber/fiber/v2"

// UserIDLocal is the fiber local the guard records the authenticated user id
// under. Only the access log reads it; handlers receive the user as a parameter.
const UserIDLocal = "accounts.user_id"

func recordUserID(c *fiber.Ctx, user *User) {
	if user != nil {
		c.Locals(UserIDLocal, user.ID)
	}
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/constants"
)

// RequireAdmin guards the /api/a group: only admin/owner tokens pass.
func RequireAdmin(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		switch role {
		case constants.RoleAdmin, constants.RoleOwner:
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
	}
}

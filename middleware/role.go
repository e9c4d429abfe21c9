package middleware

import (
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that allows only the given roles.
// The role is re-read from the database so demotions apply immediately.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "Unauthorized!")
		}

		var user models.User
		err := database.Database.Db.
			Where("id = ? AND is_deleted = ? AND is_active = ?", userID, false, true).
			First(&user).Error
		if err != nil {
			return ErrorResponse(c, fiber.StatusUnauthorized, CodeUnauthorized, "User not found!")
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("role", user.Role)
				return c.Next()
			}
		}

		return ErrorResponse(c, fiber.StatusForbidden, CodeForbidden, "You do not have permission to access this resource!")
	}
}

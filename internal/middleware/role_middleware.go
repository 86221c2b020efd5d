package middleware

import (
	"github.com/gofiber/fiber/v2"

	"photoshare/internal/messages"
	"photoshare/internal/models"
)

// CurrentUser returns the user resolved by AuthRequired, or nil when the
// route is not behind it.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserLocalsKey).(*models.User)
	return user
}

// RequireRole is a Fiber middleware enforcing that the resolved user's role
// is in the allow-list. It must run after AuthRequired. Three fixed gates
// cover the whole API: AllRoles, AdminAndModerator and AdminOnly.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !allowed[user.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": messages.OperationForbidden,
			})
		}
		return c.Next()
	}
}

// AllRoles admits any authenticated user.
func AllRoles() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleModerator, models.RoleUser)
}

// AdminAndModerator admits admins and moderators.
func AdminAndModerator() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleModerator)
}

// AdminOnly admits admins.
func AdminOnly() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

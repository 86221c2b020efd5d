package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"photoshare/internal/messages"
	"photoshare/internal/services"
)

// UserLocalsKey is where AuthRequired stores the resolved user.
const UserLocalsKey = "current_user"

// BearerToken extracts the token from an Authorization header, or "" when
// the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthRequired is a Fiber middleware resolving the authenticated user from
// a bearer access token, via the session cache with a database fallback.
// The user is stored in the request locals for handlers and role gates.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": messages.InvalidCredentials,
			})
		}
		user, err := authService.CurrentUser(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": err.Error(),
			})
		}
		c.Locals(UserLocalsKey, user)
		return c.Next()
	}
}

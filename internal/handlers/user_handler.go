package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/middleware"
	"photoshare/internal/services"
)

// UserHandler handles HTTP requests for the authenticated user's profile.
type UserHandler struct {
	userService *services.UserService
	logger      *zap.SugaredLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers the user routes with the Fiber app. All of them
// sit behind the bearer-token middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users", auth, middleware.AllRoles())
	userRoutes.Get("/me", h.HandleMe)
	userRoutes.Patch("/avatar", h.HandleUpdateAvatar)
}

// HandleMe returns the current user.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateAvatar replaces the current user's avatar with the uploaded
// file, resized to a 250x250 fill.
func (h *UserHandler) HandleUpdateAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, messages.UnreadableImage)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, messages.UnreadableImage)
	}

	updated, err := h.userService.UpdateAvatar(c.Context(), middleware.CurrentUser(c), data)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.InvalidCredentials)
	}
	return c.JSON(updated)
}

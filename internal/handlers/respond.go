package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/repositories"
	"photoshare/internal/services"
)

func detailJSON(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// respondServiceError maps service and repository sentinels onto statuses.
// notFoundDetail names the missing resource for 404 responses. Anything
// unrecognized becomes a 500 with a fixed detail; the cause is logged, never
// sent to the client.
func respondServiceError(c *fiber.Ctx, logger *zap.SugaredLogger, err error, notFoundDetail string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return detailJSON(c, fiber.StatusNotFound, notFoundDetail)
	case errors.Is(err, services.ErrForbidden):
		return detailJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAccountExists),
		errors.Is(err, services.ErrTagLimitReached):
		return detailJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		return detailJSON(c, fiber.StatusConflict, messages.TagExists)
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrEmailNotConfirmed),
		errors.Is(err, services.ErrInvalidRefreshToken),
		errors.Is(err, services.ErrInvalidScope),
		errors.Is(err, services.ErrInvalidCredentials):
		return detailJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrInvalidEmailToken),
		errors.Is(err, services.ErrUnreadableImage):
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrVerificationFailed):
		return detailJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		logger.Errorw("request failed", "path", c.Path(), "error", err)
		return detailJSON(c, fiber.StatusInternalServerError, messages.InternalError)
	}
}

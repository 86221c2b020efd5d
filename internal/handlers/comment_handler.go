package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/middleware"
	"photoshare/internal/services"
)

// CommentHandler handles HTTP requests for comments under images.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
	logger         *zap.SugaredLogger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService, logger *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
		logger:         logger,
	}
}

// RegisterRoutes registers the comment routes with the Fiber app. Deletion
// is gated to moderators and admins; the edit ownership rule lives in the
// service.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/images/:id/comments", auth, middleware.AllRoles(), h.HandleCreate)
	router.Get("/images/:id/comments", auth, middleware.AllRoles(), h.HandleGetByImage)
	router.Put("/comments/:id", auth, middleware.AllRoles(), h.HandleUpdate)
	router.Delete("/comments/:id", auth, middleware.AdminAndModerator(), h.HandleDelete)
}

// CommentRequest represents the request body for creating or editing a
// comment.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// HandleCreate adds a comment under an image.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	imageID, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	comment, err := h.commentService.Create(middleware.CurrentUser(c), uint(imageID), req.Comment)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleGetByImage lists all comments under an image.
func (h *CommentHandler) HandleGetByImage(c *fiber.Ctx) error {
	imageID, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	comments, err := h.commentService.GetByImage(uint(imageID))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(comments)
}

// HandleUpdate replaces a comment body.
func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.CommentNotFound)
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	comment, err := h.commentService.Update(middleware.CurrentUser(c), uint(id), req.Comment)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.CommentNotFound)
	}
	return c.JSON(comment)
}

// HandleDelete removes a comment.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.CommentNotFound)
	}
	comment, err := h.commentService.Delete(middleware.CurrentUser(c), uint(id))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.CommentNotFound)
	}
	return c.JSON(comment)
}

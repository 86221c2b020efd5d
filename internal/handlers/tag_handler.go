package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/middleware"
	"photoshare/internal/services"
)

// TagHandler handles HTTP requests for the standalone tag CRUD surface.
type TagHandler struct {
	tagService *services.TagService
	validate   *validator.Validate
	logger     *zap.SugaredLogger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService, logger *zap.SugaredLogger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		validate:   validator.New(),
		logger:     logger,
	}
}

// RegisterRoutes registers the tag routes with the Fiber app. Reads are open
// to any authenticated user; mutations are gated by role.
func (h *TagHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	tagRoutes := router.Group("/tags", auth)
	tagRoutes.Post("/", middleware.AdminAndModerator(), h.HandleCreate)
	tagRoutes.Get("/", middleware.AllRoles(), h.HandleGetAll)
	tagRoutes.Get("/:id", middleware.AllRoles(), h.HandleGetByID)
	tagRoutes.Put("/:id", middleware.AdminAndModerator(), h.HandleUpdate)
	tagRoutes.Delete("/name/:name", middleware.AdminOnly(), h.HandleDeleteByName)
}

// TagRequest represents the request body for creating or renaming a tag.
type TagRequest struct {
	TagName string `json:"tag_name" validate:"required,max=13"`
}

// HandleCreate inserts a new tag.
func (h *TagHandler) HandleCreate(c *fiber.Ctx) error {
	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.tagService.Create(req.TagName)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.TagNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// HandleGetAll lists all tags.
func (h *TagHandler) HandleGetAll(c *fiber.Ctx) error {
	tags, err := h.tagService.GetAll()
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.TagNotFound)
	}
	return c.JSON(tags)
}

// HandleGetByID returns one tag.
func (h *TagHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.TagNotFound)
	}
	tag, err := h.tagService.GetByID(uint(id))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.TagNotFound)
	}
	return c.JSON(tag)
}

// HandleUpdate renames a tag.
func (h *TagHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.TagNotFound)
	}
	var req TagRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.tagService.Update(uint(id), req.TagName)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.TagNotFound)
	}
	return c.JSON(tag)
}

// HandleDeleteByName removes a tag by its name.
func (h *TagHandler) HandleDeleteByName(c *fiber.Ctx) error {
	tag, err := h.tagService.DeleteByName(c.Params("name"))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.TagNotFound)
	}
	return c.JSON(tag)
}

package handlers

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/services"
)

// ImageHandler handles HTTP requests for images: uploads, listing, canned
// transforms, tag attachment and QR share links.
type ImageHandler struct {
	imageService *services.ImageService
	validate     *validator.Validate
	logger       *zap.SugaredLogger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService *services.ImageService, logger *zap.SugaredLogger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		validate:     validator.New(),
		logger:       logger,
	}
}

// RegisterRoutes registers the image routes with the Fiber app. Every route
// requires an authenticated user; ownership checks live in the service.
func (h *ImageHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	imageRoutes := router.Group("/images", auth, middleware.AllRoles())
	imageRoutes.Post("/upload", h.HandleUpload)
	imageRoutes.Get("/search", h.HandleSearch)
	imageRoutes.Get("/get_all", h.HandleGetAll)
	imageRoutes.Post("/change_size", h.HandleChangeSize)
	imageRoutes.Post("/fade_edges", h.HandleFadeEdges)
	imageRoutes.Post("/black_white", h.HandleBlackWhite)
	imageRoutes.Post("/add_tag", h.HandleAddTag)
	imageRoutes.Post("/create_qr", h.HandleCreateQR)
	imageRoutes.Get("/:id", h.HandleGetByID)
	imageRoutes.Put("/:id/update", h.HandleUpdateDescription)
	imageRoutes.Delete("/:id", h.HandleDelete)
}

// HandleUpload stores a multipart file and inserts the image row.
func (h *ImageHandler) HandleUpload(c *fiber.Ctx) error {
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

	contentType := fileHeader.Header.Get("Content-Type")
	img, err := h.imageService.Upload(c.Context(), middleware.CurrentUser(c),
		c.FormValue("description"), data, contentType)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// HandleSearch lists images whose description contains the query text.
func (h *ImageHandler) HandleSearch(c *fiber.Ctx) error {
	images, err := h.imageService.Search(c.Query("description"))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	if len(images) == 0 {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	return c.JSON(images)
}

// HandleGetAll returns a page of images. The page size is clamped to 10..100.
func (h *ImageHandler) HandleGetAll(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := c.QueryInt("limit", 10)
	if limit < 10 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	images, err := h.imageService.GetAll(skip, limit)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	if len(images) == 0 {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	return c.JSON(images)
}

// HandleGetByID returns one image.
func (h *ImageHandler) HandleGetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	img, err := h.imageService.GetByID(uint(id))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(img)
}

// UpdateDescriptionRequest represents the request body for a description
// update.
type UpdateDescriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

// HandleUpdateDescription changes the description of an owned image.
func (h *ImageHandler) HandleUpdateDescription(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	var req UpdateDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	img, err := h.imageService.UpdateDescription(middleware.CurrentUser(c), uint(id), req.Description)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(img)
}

// HandleDelete removes an owned image and its media object.
func (h *ImageHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return detailJSON(c, fiber.StatusNotFound, messages.ImageNotFound)
	}
	img, err := h.imageService.Delete(c.Context(), middleware.CurrentUser(c), uint(id))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(img)
}

// ChangeSizeRequest represents the request body for the resize transform.
type ChangeSizeRequest struct {
	ImageID uint `json:"image_id" validate:"required"`
	Width   int  `json:"width" validate:"required,gt=0"`
}

// HandleChangeSize stores a resized copy of an image as a new row.
func (h *ImageHandler) HandleChangeSize(c *fiber.Ctx) error {
	var req ChangeSizeRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	img, err := h.imageService.Resize(c.Context(), req.ImageID, req.Width)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// TransformRequest represents the request body for the parameterless
// transforms.
type TransformRequest struct {
	ImageID uint `json:"image_id" validate:"required"`
}

// HandleFadeEdges stores a faded-border copy of an image as a new row.
func (h *ImageHandler) HandleFadeEdges(c *fiber.Ctx) error {
	return h.handleTransform(c, h.imageService.FadeEdges)
}

// HandleBlackWhite stores a grayscale copy of an image as a new row.
func (h *ImageHandler) HandleBlackWhite(c *fiber.Ctx) error {
	return h.handleTransform(c, h.imageService.BlackWhite)
}

func (h *ImageHandler) handleTransform(c *fiber.Ctx,
	fn func(ctx context.Context, id uint) (*models.Image, error)) error {
	var req TransformRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	img, err := fn(c.Context(), req.ImageID)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// AddTagRequest represents the request body for attaching a tag.
type AddTagRequest struct {
	ImageID uint   `json:"image_id" validate:"required"`
	Tag     string `json:"tag" validate:"required,max=13"`
}

// HandleAddTag attaches a tag to an image, creating it when missing.
func (h *ImageHandler) HandleAddTag(c *fiber.Ctx) error {
	var req AddTagRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.imageService.AddTag(req.ImageID, req.Tag)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(fiber.Map{"image_id": req.ImageID, "tag": tag.TagName})
}

// HandleCreateQR answers a QR share link for an image, generating and
// storing it on first use.
func (h *ImageHandler) HandleCreateQR(c *fiber.Ctx) error {
	var req TransformRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	img, err := h.imageService.CreateQR(c.Context(), req.ImageID)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.ImageNotFound)
	}
	return c.JSON(fiber.Map{"image_id": img.ID, "qr_code_url": img.QRCodeURL})
}

package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"photoshare/internal/messages"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repositories"
	"photoshare/internal/services"
)

// AuthHandler handles HTTP requests for signup, login, token refresh and the
// email-confirmation flow.
type AuthHandler struct {
	authService  *services.AuthService
	emailService *services.EmailService
	validate     *validator.Validate
	logger       *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, emailService *services.EmailService,
	logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		validate:     validator.New(),
		logger:       logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/refresh_token", h.HandleRefresh)
	authRoutes.Get("/confirmed_email/:token", h.HandleConfirmEmail)
	authRoutes.Post("/request_email", h.HandleRequestEmail)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,min=5,max=16"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=10"`
	FirstName string `json:"first_name" validate:"omitempty,max=25"`
	LastName  string `json:"last_name" validate:"omitempty,max=25"`
	Sex       string `json:"sex" validate:"omitempty,max=10"`
}

// HandleSignup registers a new user and enqueues the confirmation mail.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Sex:       req.Sex,
	}
	created, err := h.authService.Signup(user)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.AccountExists)
	}

	h.emailService.SendConfirmation(created.Email, created.Username, c.BaseURL())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   created,
		"detail": messages.VerificationCheckEmail,
	})
}

// HandleLogin authenticates a form login (username field carries the email)
// and answers an access/refresh pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "username and password are required")
	}

	pair, err := h.authService.Login(c.Context(), email, password)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.InvalidEmail)
	}
	return c.Status(fiber.StatusAccepted).JSON(pair)
}

// HandleRefresh rotates a bearer refresh token into a fresh pair.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	token := middleware.BearerToken(c)
	if token == "" {
		return detailJSON(c, fiber.StatusUnauthorized, messages.InvalidCredentials)
	}
	pair, err := h.authService.Refresh(c.Context(), token)
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.InvalidCredentials)
	}
	return c.Status(fiber.StatusAccepted).JSON(pair)
}

// HandleConfirmEmail resolves the emailed token and marks the account
// confirmed. Confirming twice answers the already-confirmed message.
func (h *AuthHandler) HandleConfirmEmail(c *fiber.Ctx) error {
	message, err := h.authService.ConfirmEmail(c.Context(), c.Params("token"))
	if err != nil {
		return respondServiceError(c, h.logger, err, messages.VerificationErr)
	}
	return c.JSON(fiber.Map{"message": message})
}

// RequestEmailRequest represents the request body for resending the
// confirmation mail.
type RequestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestEmail re-sends the confirmation mail. The answer is the same
// for unknown addresses, so the endpoint cannot be used to enumerate
// accounts.
func (h *AuthHandler) HandleRequestEmail(c *fiber.Ctx) error {
	var req RequestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return detailJSON(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(fiber.Map{"message": messages.VerificationCheckEmail})
		}
		return respondServiceError(c, h.logger, err, messages.VerificationErr)
	}
	if user.Confirmed {
		return c.JSON(fiber.Map{"message": messages.VerifiedAlready})
	}

	h.emailService.SendConfirmation(user.Email, user.Username, c.BaseURL())
	return c.JSON(fiber.Map{"message": messages.VerificationCheckEmail})
}

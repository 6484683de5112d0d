package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kamalhaddad27/servicedesk-fik/internal/api/dto"
	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Actor:     actorResponse(result.Actor),
	})
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	actor, err := h.authService.RegisterUser(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": actorResponse(actor)})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": actorResponse(actor)})
}

func actorResponse(actor *domain.Actor) dto.ActorResponse {
	return dto.ActorResponse{
		ID:         actor.ID,
		Name:       actor.Name,
		Email:      actor.Email,
		Role:       actor.Role,
		Department: actor.Department,
		Active:     actor.Active,
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kamalhaddad27/servicedesk-fik/internal/api/dto"
	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

// AdminHandler manages category and actor administration.
type AdminHandler struct {
	categories  *service.CategoryService
	authService *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(categories *service.CategoryService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{categories: categories, authService: authService}
}

// CreateCategory POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.Create(c.UserContext(), actor, service.CategoryCreateInput{
		Name:          req.Name,
		Description:   req.Description,
		Subcategories: req.Subcategories,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// ListCategories GET /categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	categories, err := h.categories.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetCategoryActive PATCH /admin/categories/:id.
func (h *AdminHandler) SetCategoryActive(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid category id", map[string]any{"id": c.Params("id")})
	}
	var req dto.SetCategoryActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.categories.SetActive(c.UserContext(), actor, id, req.Active); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateActor POST /admin/actors.
func (h *AdminHandler) CreateActor(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateActorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.authService.CreateActor(c.UserContext(), actor, service.CreateActorInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": actorResponse(created)})
}

// ListDeskActors GET /actors/desk.
func (h *AdminHandler) ListDeskActors(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	actors, err := h.authService.ListDeskActors(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.ActorResponse, 0, len(actors))
	for i := range actors {
		items = append(items, actorResponse(&actors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Description:   category.Description,
		Subcategories: category.Subcategories,
		IsActive:      category.IsActive,
		CreatedAt:     category.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

// CategoryService manages the ticket category catalog. Mutations are
// admin-only; listing is open to any authenticated actor.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryCreateInput describes a new category.
type CategoryCreateInput struct {
	Name          string
	Description   string
	Subcategories []string
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, actor *domain.Actor, input CategoryCreateInput) (*domain.Category, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", map[string]any{"field": "name"})
	}
	subcategories := make([]string, 0, len(input.Subcategories))
	for _, sub := range input.Subcategories {
		if trimmed := strings.TrimSpace(sub); trimmed != "" {
			subcategories = append(subcategories, trimmed)
		}
	}

	category := &domain.Category{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Subcategories: subcategories,
		IsActive:      true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns categories; non-admins only see active ones.
func (s *CategoryService) List(ctx context.Context, actor *domain.Actor) ([]domain.Category, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	activeOnly := actor.Role != domain.RoleAdmin
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// SetActive enables or disables a category for new tickets.
func (s *CategoryService) SetActive(ctx context.Context, actor *domain.Actor, id int64, active bool) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin required")
	}
	if err := s.categories.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

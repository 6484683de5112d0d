package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/config"
	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
	"github.com/kamalhaddad27/servicedesk-fik/internal/repository"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

// AuthService resolves credentials into actors and manages the directory.
// Token issuance stays thin; the ticket engine only ever consumes the
// resolved actor.
type AuthService struct {
	actors     repository.ActorRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, actors repository.ActorRepository) *AuthService {
	return &AuthService{
		actors:     actors,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginResult carries a signed token and the actor it represents.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Actor     *domain.Actor
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	actor, err := s.actors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.Active {
		return nil, apperrors.NewUnauthorized("account suspended")
	}
	if err := auth.ComparePassword(actor.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(actor)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Actor: actor}, nil
}

// RegisterInput describes a self-service user registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUser creates an ordinary-user account.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.Actor, error) {
	return s.createActor(ctx, input.Name, input.Email, input.Password, domain.RoleUser, nil)
}

// CreateActorInput describes an admin-provisioned account.
type CreateActorInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department *domain.Department
}

// CreateActor provisions staff/admin/executive accounts. Admin only.
func (s *AuthService) CreateActor(ctx context.Context, actor *domain.Actor, input CreateActorInput) (*domain.Actor, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin required")
	}
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if input.Department != nil && !domain.ValidDepartment(*input.Department) {
		return nil, apperrors.NewValidationError("invalid department", map[string]any{"department": *input.Department})
	}
	return s.createActor(ctx, input.Name, input.Email, input.Password, input.Role, input.Department)
}

// ListDeskActors returns active staff and admins, the valid forward targets.
func (s *AuthService) ListDeskActors(ctx context.Context, actor *domain.Actor) ([]domain.Actor, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !actor.IsDeskSide() {
		return nil, apperrors.NewForbidden("desk role required")
	}
	active := true
	list, err := s.actors.List(ctx, repository.ActorFilter{
		Roles:  []domain.Role{domain.RoleStaff, domain.RoleAdmin},
		Active: &active,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func (s *AuthService) createActor(ctx context.Context, name, email, password string, role domain.Role, department *domain.Department) (*domain.Actor, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	created := &domain.Actor{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   department,
		Active:       true,
	}
	if err := s.actors.Create(ctx, created); err != nil {
		return nil, apperrors.MapError(err)
	}
	return created, nil
}

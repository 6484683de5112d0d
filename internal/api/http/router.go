package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kamalhaddad27/servicedesk-fik/internal/api/http/handlers"
	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authed.Get("/auth/me", cfg.Auth.Me)

	tickets := authed.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Patch("/:id", cfg.Tickets.Update)
	tickets.Post("/:id/transition", cfg.Tickets.Transition)
	tickets.Post("/:id/priority", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin, domain.RoleExecutive), cfg.Tickets.UpdatePriority)
	tickets.Post("/:id/disposisi", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin), cfg.Tickets.Forward)
	tickets.Get("/:id/disposisi", cfg.Tickets.History)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Get("/:id/messages", cfg.Tickets.ListMessages)

	authed.Get("/categories", cfg.Admin.ListCategories)
	authed.Get("/actors/desk", auth.RequireRole(domain.RoleStaff, domain.RoleAdmin, domain.RoleExecutive), cfg.Admin.ListDeskActors)

	admin := authed.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Patch("/categories/:id", cfg.Admin.SetCategoryActive)
	admin.Post("/actors", cfg.Admin.CreateActor)

	authed.Get("/reports/summary", auth.RequireRole(domain.RoleExecutive, domain.RoleAdmin), cfg.Reports.Summary)
}

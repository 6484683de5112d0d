package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kamalhaddad27/servicedesk-fik/internal/auth"
	"github.com/kamalhaddad27/servicedesk-fik/internal/service"
	apperrors "github.com/kamalhaddad27/servicedesk-fik/pkg/util"
)

// ReportsHandler serves executive dashboards.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Summary GET /reports/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summary, err := h.reports.Summary(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

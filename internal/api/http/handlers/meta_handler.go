package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// MetaHandler serves the option lists behind the ticket and user forms.
type MetaHandler struct{}

// NewMetaHandler constructs handler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Options GET /meta/options.
func (h *MetaHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.OptionsResponse{
		Branches:      domain.Branches,
		Services:      domain.Services,
		Categories:    domain.Categories,
		SubCategories: domain.SubCategories,
		Networks:      domain.Networks,
		Priorities:    domain.TicketPriorities,
		Statuses:      domain.TicketStatuses,
		Assignees:     domain.Assignees,
		Roles:         domain.Roles,
	}})
}

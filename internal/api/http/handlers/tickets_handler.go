package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	store    *service.TicketStore
	validate *validator.Validate
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(store *service.TicketStore, validate *validator.Validate) *TicketsHandler {
	return &TicketsHandler{store: store, validate: validate}
}

// ListTickets GET /tickets. Admins see every ticket, others their own.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	var query dto.TicketListQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}

	tickets, err := h.store.List(c.UserContext())
	if err != nil {
		return err
	}
	visible := service.FilterTickets(tickets, *account, query.ToFilter())
	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponses(visible),
		"meta": fiber.Map{"total": len(visible), "loading": h.store.Loading()},
	})
}

// Stats GET /tickets/stats. Counts cover the tickets the caller may list.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	tickets, err := h.store.List(c.UserContext())
	if err != nil {
		return err
	}
	summary := service.TicketStats(tickets, *account)
	return c.JSON(fiber.Map{"data": dto.NewTicketStatsResponse(summary)})
}

// CreateTicket POST /tickets. The ticket commits after the submit delay; the response
// is 202 unless ?wait=true or the commit already happened.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	pending := h.store.CreateTicket(ctx, req.ToInput(), domain.ReporterFrom(*account))
	if !c.QueryBool("wait") {
		select {
		case <-pending.Done():
		default:
			return c.Status(http.StatusAccepted).JSON(fiber.Map{
				"data": dto.PendingResponse{ID: pending.ID(), Status: "pending"},
			})
		}
	}

	ticket, err := pending.Wait(ctx)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicket GET /tickets/:id. Tickets of other reporters look missing to non-admins.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.store.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if !account.IsAdmin() && ticket.ReporterID != account.ID {
		return apperrors.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	ticket, err := h.store.UpdateStatus(c.UserContext(), c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// UpdateAssignee PATCH /tickets/:id/assignee.
func (h *TicketsHandler) UpdateAssignee(c *fiber.Ctx) error {
	var req dto.UpdateAssigneeRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	ticket, err := h.store.UpdateAssignee(c.UserContext(), c.Params("id"), domain.Assignee(req.Assignee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket)})
}

// ListReporterTickets GET /users/:id/tickets.
func (h *TicketsHandler) ListReporterTickets(c *fiber.Ctx) error {
	tickets, err := h.store.ListByReporter(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// UsersHandler exposes the admin user directory.
type UsersHandler struct {
	directory *service.UserDirectory
	validate  *validator.Validate
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.UserDirectory, validate *validator.Validate) *UsersHandler {
	return &UsersHandler{directory: directory, validate: validate}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.directory.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{"total": len(users), "loading": h.directory.Loading()},
	})
}

// CreateUser POST /users. Same pending semantics as ticket creation.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	pending := h.directory.AddUser(ctx, req.ToInput())
	if !c.QueryBool("wait") {
		select {
		case <-pending.Done():
		default:
			return c.Status(http.StatusAccepted).JSON(fiber.Map{
				"data": dto.PendingResponse{ID: pending.ID(), Status: "pending"},
			})
		}
	}

	account, err := pending.Wait(ctx)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": account})
}

// DeleteUser DELETE /users/:id. Unknown ids succeed.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.directory.RemoveUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ResetPassword POST /users/:id/reset-password. Unknown ids succeed.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	if err := h.directory.ResetPassword(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AuthHandler exposes login, logout and the current session.
type AuthHandler struct {
	sessions *service.SessionManager
	tokens   *auth.TokenManager
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionManager, tokens *auth.TokenManager, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, validate: validate}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}

	account, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, exp, err := h.tokens.GenerateToken(*account)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			User: *account,
			Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	account, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": account})
}

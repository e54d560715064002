package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/api/dto"
	"github.com/nexus-suite/helpdesk/internal/service"
)

// AuthHandler exposes the login and logout actions.
type AuthHandler struct {
	profiles *service.ProfileService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{profiles: profiles}
}

// Login handles POST /auth/login. A rejection leaves the profile on the
// login view and answers 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	principal, err := profileOf(c)
	if err != nil {
		return err
	}
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	current, err := h.profiles.Login(c.UserContext(), principal.ProfileID, req.Role, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(current)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, err := profileOf(c)
	if err != nil {
		return err
	}
	current, err := h.profiles.Logout(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(current)})
}

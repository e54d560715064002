package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/api/dto"
	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/service"
	apperrors "github.com/nexus-suite/helpdesk/pkg/errorutil"
)

// ViewHandler renders and navigates the per-profile view.
type ViewHandler struct {
	profiles *service.ProfileService
}

// NewViewHandler constructs handler.
func NewViewHandler(profiles *service.ProfileService) *ViewHandler {
	return &ViewHandler{profiles: profiles}
}

// Current GET /view.
func (h *ViewHandler) Current(c *fiber.Ctx) error {
	principal, err := profileOf(c)
	if err != nil {
		return err
	}
	page, err := h.profiles.Page(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page})
}

// OpenLogin POST /view/login.
func (h *ViewHandler) OpenLogin(c *fiber.Ctx) error {
	principal, err := profileOf(c)
	if err != nil {
		return err
	}
	current, err := h.profiles.OpenLogin(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(current)})
}

// Back POST /view/back.
func (h *ViewHandler) Back(c *fiber.Ctx) error {
	principal, err := profileOf(c)
	if err != nil {
		return err
	}
	current, err := h.profiles.Back(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewViewResponse(current)})
}

func profileOf(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.ProfileID == "" {
		return nil, apperrors.NewUnauthorized("profile required")
	}
	return principal, nil
}

func sessionOf(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || !principal.Authenticated() {
		return nil, apperrors.NewUnauthorized("login required")
	}
	return principal, nil
}

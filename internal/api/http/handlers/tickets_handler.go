package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/api/dto"
	"github.com/nexus-suite/helpdesk/internal/service"
)

// SnapshotRefresher re-reads the admin ticket snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	poller  SnapshotRefresher
}

// NewTicketsHandler constructs handler. poller may be nil.
func NewTicketsHandler(ticketService *service.TicketService, poller SnapshotRefresher) *TicketsHandler {
	return &TicketsHandler{service: ticketService, poller: poller}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), *principal.Session, service.TicketCreateInput{
		Category:    req.Category,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// CloseTicket POST /tickets/:id/close. The admin snapshot is refreshed
// right away rather than at the next poll.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	if err := h.service.CloseTicket(c.UserContext(), *principal.Session, c.Params("id")); err != nil {
		return err
	}
	if h.poller != nil {
		if err := h.poller.Refresh(c.UserContext()); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "closed": true}})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/api/dto"
	"github.com/nexus-suite/helpdesk/internal/service"
)

// ChatHandler drives the employee dashboard chat.
type ChatHandler struct {
	profiles *service.ProfileService
	tickets  *service.TicketService
}

// NewChatHandler constructs handler.
func NewChatHandler(profiles *service.ProfileService, tickets *service.TicketService) *ChatHandler {
	return &ChatHandler{profiles: profiles, tickets: tickets}
}

// Mount POST /chat/mount resets the transcript to the greeting.
func (h *ChatHandler) Mount(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	chat, err := h.profiles.MountChat(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChatResponse(chat)})
}

// Transcript GET /chat.
func (h *ChatHandler) Transcript(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	chat, err := h.profiles.Chat(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChatResponse(chat)})
}

// Send POST /chat/messages. The call returns once the assistant turn is
// appended; completion failures still answer 200 with the fallback turn.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	chat, err := h.profiles.Chat(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	if err := chat.Send(c.UserContext(), req.Text); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChatResponse(chat)})
}

// Escalation GET /chat/escalation returns the ticket draft built from the
// latest question. Nothing is published before the first reply.
func (h *ChatHandler) Escalation(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	chat, err := h.profiles.Chat(c.UserContext(), principal.ProfileID)
	if err != nil {
		return err
	}
	draft, err := chat.Escalate()
	if err != nil {
		return err
	}
	h.tickets.NotifyEscalation(c.UserContext(), *principal.Session, draft)
	return c.JSON(fiber.Map{"data": draft})
}

// Manual GET /chat/manual returns a blank ticket draft.
func (h *ChatHandler) Manual(c *fiber.Ctx) error {
	principal, err := sessionOf(c)
	if err != nil {
		return err
	}
	if _, err := h.profiles.Chat(c.UserContext(), principal.ProfileID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": service.ManualDraft()})
}

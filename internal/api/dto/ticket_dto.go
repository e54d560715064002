package dto

import "github.com/nexus-suite/helpdesk/internal/domain"

// CreateTicketRequest payload. Empty category and priority take the defaults.
type CreateTicketRequest struct {
	Category    domain.TicketCategory `json:"category" validate:"omitempty,oneof=IT HR Admin"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=P1 P2 P3 P4"`
	Description string                `json:"description" validate:"required,max=4000"`
}

// TicketListResponse is the admin queue with its headline figures.
type TicketListResponse struct {
	Tickets []domain.Ticket `json:"tickets"`
	Open    int             `json:"open"`
	P1      int             `json:"p1"`
}

// NewTicketListResponse counts open and P1 tickets.
func NewTicketListResponse(tickets []domain.Ticket) TicketListResponse {
	resp := TicketListResponse{Tickets: tickets}
	if resp.Tickets == nil {
		resp.Tickets = []domain.Ticket{}
	}
	for _, t := range tickets {
		if t.IsOpen() {
			resp.Open++
		}
		if t.Priority == domain.TicketPriorityP1 {
			resp.P1++
		}
	}
	return resp
}
